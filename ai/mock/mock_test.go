package mock

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/poiesic/coursefinder/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder(t *testing.T) {
	ctx := context.Background()

	t.Run("deterministic unit vectors", func(t *testing.T) {
		m := NewMockEmbedder()
		v1, err := m.EmbedText(ctx, "data structures")
		require.NoError(t, err)
		v2, err := m.EmbedText(ctx, "data structures")
		require.NoError(t, err)

		assert.Equal(t, v1, v2)
		assert.Len(t, v1, Dimension)

		var sum float64
		for _, v := range v1 {
			sum += float64(v) * float64(v)
		}
		assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
		assert.Equal(t, 2, m.CallCount())
	})

	t.Run("batch matches single", func(t *testing.T) {
		m := NewMockEmbedder()
		vectors, err := m.EmbedTexts(ctx, []string{"a", "b"})
		require.NoError(t, err)
		require.Len(t, vectors, 2)

		single, _ := m.EmbedText(ctx, "b")
		assert.Equal(t, single, vectors[1])
		assert.NotEqual(t, vectors[0], vectors[1])
	})

	t.Run("custom function and reset", func(t *testing.T) {
		m := NewMockEmbedder()
		m.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return nil, errors.New("boom")
		}
		_, err := m.EmbedText(ctx, "x")
		assert.Error(t, err)

		m.Reset()
		assert.Equal(t, 0, m.CallCount())
		_, err = m.EmbedText(ctx, "x")
		assert.NoError(t, err)
	})
}

func TestMockGenerator(t *testing.T) {
	ctx := context.Background()

	t.Run("echoes last user message", func(t *testing.T) {
		g := NewMockGenerator()
		out, err := g.Generate(ctx, []ai.Message{
			ai.SystemMessage("system"),
			ai.UserMessage("first"),
			{Role: ai.RoleAssistant, Content: "reply"},
			ai.UserMessage("second"),
		})
		require.NoError(t, err)
		assert.Equal(t, "second", out)
		assert.Equal(t, 1, g.CallCount())
		require.Len(t, g.Calls(), 1)
		assert.Len(t, g.Calls()[0], 4)
	})

	t.Run("scripted response", func(t *testing.T) {
		g := NewMockGenerator()
		g.GenerateFunc = func(ctx context.Context, messages []ai.Message) (string, error) {
			return "YES", nil
		}
		out, err := g.Generate(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, "YES", out)

		g.Reset()
		assert.Equal(t, 0, g.CallCount())
		assert.Empty(t, g.Calls())
	})
}

func TestMockProvider(t *testing.T) {
	provider := NewMockProvider()
	mp := provider.(*MockProvider)

	assert.Same(t, mp.GetMockEmbedder(), provider.Embedder())
	assert.Same(t, mp.GetMockGenerator(), provider.Generator())
	assert.False(t, mp.Closed())
	require.NoError(t, provider.Close())
	assert.True(t, mp.Closed())
}
