package qa

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/poiesic/coursefinder/ai"
	"github.com/poiesic/coursefinder/ai/mock"
	"github.com/poiesic/coursefinder/core"
	"github.com/poiesic/coursefinder/storage"
	"github.com/poiesic/coursefinder/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var indexedCourses = []struct{ code, title string }{
	{"01:198:111", "INTRO COMPUTER SCI"},
	{"01:198:112", "DATA STRUCTURES"},
	{"01:198:205", "INTRO DISCRETE STRUCT I"},
	{"01:640:151", "CALCULUS I"},
}

func setupIndex(t *testing.T) storage.VectorIndex {
	t.Helper()
	index, err := badger.NewMemoryIndex()
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })

	for _, c := range indexedCourses {
		text := fmt.Sprintf("Course Title: %s\nCourse Code: %s", c.title, c.code)
		require.NoError(t, index.Upsert(context.Background(), &core.CourseVector{
			ID:     c.code,
			Vector: mock.DeterministicVector(c.title, mock.Dimension),
			Metadata: map[string]string{
				core.MetadataTitle: c.title,
				core.MetadataCode:  c.code,
				core.MetadataText:  text,
			},
		}))
	}
	return index
}

// scripted answers the classifier with verdict and everything else with answer.
func scripted(verdict, answer string) func(context.Context, []ai.Message) (string, error) {
	return func(_ context.Context, messages []ai.Message) (string, error) {
		if messages[0].Content == DefaultPrompts().Classifier {
			return verdict, nil
		}
		return answer, nil
	}
}

func newTestAssistant(t *testing.T, opts ...Option) (*Assistant, *mock.MockGenerator, *mock.MockEmbedder) {
	t.Helper()
	embedder := mock.NewMockEmbedder()
	generator := mock.NewMockGenerator()
	assistant, err := NewAssistant(setupIndex(t), mock.NewMockProviderWithServices(embedder, generator), opts...)
	require.NoError(t, err)
	return assistant, generator, embedder
}

func TestNewAssistant(t *testing.T) {
	index := setupIndex(t)
	provider := mock.NewMockProvider()

	_, err := NewAssistant(nil, provider)
	assert.Equal(t, ErrIndexRequired, err)

	_, err = NewAssistant(index, nil)
	assert.Equal(t, ErrAIProviderRequired, err)

	_, err = NewAssistant(index, provider, WithTopK(0))
	assert.Error(t, err)

	_, err = NewAssistant(index, provider, WithHistoryLimit(-1))
	assert.Error(t, err)

	a, err := NewAssistant(index, provider, WithLogger(nil), WithPrompts(Prompts{Course: "custom"}))
	require.NoError(t, err)
	assert.Equal(t, "custom", a.prompts.Course)
	assert.Equal(t, DefaultPrompts().Classifier, a.prompts.Classifier)
}

func TestAnswer_CourseQuestion(t *testing.T) {
	assistant, generator, embedder := newTestAssistant(t)
	generator.GenerateFunc = scripted(" yes \n", "Course Code: 01:198:112 - Title: DATA STRUCTURES")

	answer, err := assistant.Answer(context.Background(), "DATA STRUCTURES", nil)
	require.NoError(t, err)

	assert.Equal(t, "Course Code: 01:198:112 - Title: DATA STRUCTURES", answer.Answer)
	require.Len(t, answer.RelevantCourses, 3)
	assert.Equal(t, "01:198:112", answer.RelevantCourses[0])
	assert.Equal(t, 1, embedder.CallCount())

	calls := generator.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, ai.RoleSystem, calls[1][0].Role)
	assert.Equal(t, DefaultPrompts().Course, calls[1][0].Content)

	prompt := calls[1][1].Content
	assert.True(t, strings.HasPrefix(prompt, "Question: DATA STRUCTURES\n\nRelevant Course Information:\n"), prompt)
	assert.Contains(t, prompt, "Course Code: 01:198:112")
	assert.NotContains(t, prompt, "Previous Conversation")
}

func TestAnswer_History(t *testing.T) {
	assistant, generator, _ := newTestAssistant(t)
	generator.GenerateFunc = scripted("YES", "It requires 01:198:111.")

	var history []ai.Message
	for i := range 8 {
		history = append(history,
			ai.Message{Role: ai.RoleUser, Content: fmt.Sprintf("question %d", i)},
			ai.Message{Role: ai.RoleAssistant, Content: fmt.Sprintf("answer %d", i)},
		)
	}

	_, err := assistant.Answer(context.Background(), "what about the prerequisites?", history)
	require.NoError(t, err)

	prompt := generator.Calls()[1][1].Content
	assert.Contains(t, prompt, "Question: what about the prerequisites?\n\nPrevious Conversation:\nUser: question 5\nAssistant: answer 5\n")
	assert.Contains(t, prompt, "Assistant: answer 7\n\n\n\nRelevant Course Information:\n")
	assert.NotContains(t, prompt, "question 4")
}

func TestAnswer_NonCourseQuestion(t *testing.T) {
	assistant, generator, embedder := newTestAssistant(t)
	generator.GenerateFunc = scripted("NO", "I can help you find Rutgers courses.")

	answer, err := assistant.Answer(context.Background(), "What's the weather?", nil)
	require.NoError(t, err)

	assert.Equal(t, "I can help you find Rutgers courses.", answer.Answer)
	assert.NotNil(t, answer.RelevantCourses)
	assert.Empty(t, answer.RelevantCourses)
	assert.Zero(t, embedder.CallCount())

	calls := generator.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, DefaultPrompts().NonCourse, calls[1][0].Content)
	assert.Equal(t, "What's the weather?", calls[1][1].Content)
}

func TestAnswer_ClassifierVerdicts(t *testing.T) {
	for _, verdict := range []string{"Yes.", "YES, it is", "maybe"} {
		assistant, generator, embedder := newTestAssistant(t)
		generator.GenerateFunc = scripted(verdict, "ok")

		_, err := assistant.Answer(context.Background(), "Who teaches calculus?", nil)
		require.NoError(t, err)
		assert.Zero(t, embedder.CallCount(), "verdict %q should not count as related", verdict)
	}
}

func TestAnswer_ClassifierFailureAssumesRelated(t *testing.T) {
	assistant, generator, embedder := newTestAssistant(t)
	generator.GenerateFunc = func(_ context.Context, messages []ai.Message) (string, error) {
		if messages[0].Content == DefaultPrompts().Classifier {
			return "", errors.New("rate limited")
		}
		return "answer", nil
	}

	answer, err := assistant.Answer(context.Background(), "CALCULUS I", nil)
	require.NoError(t, err)
	assert.Equal(t, "answer", answer.Answer)
	assert.Equal(t, 1, embedder.CallCount())
}

func TestAnswer_Failures(t *testing.T) {
	t.Run("empty question", func(t *testing.T) {
		assistant, generator, _ := newTestAssistant(t)
		_, err := assistant.Answer(context.Background(), "  ", nil)
		assert.ErrorIs(t, err, ErrEmptyQuestion)
		assert.Zero(t, generator.CallCount())
	})

	t.Run("embedding failure", func(t *testing.T) {
		assistant, generator, embedder := newTestAssistant(t)
		generator.GenerateFunc = scripted("YES", "unused")
		embedder.EmbedTextFunc = func(context.Context, string) ([]float32, error) {
			return nil, errors.New("invalid api key")
		}

		_, err := assistant.Answer(context.Background(), "CALCULUS I", nil)
		assert.ErrorIs(t, err, ErrRetrievalFailed)
	})

	t.Run("generation failure", func(t *testing.T) {
		assistant, generator, _ := newTestAssistant(t)
		generator.GenerateFunc = func(_ context.Context, messages []ai.Message) (string, error) {
			if messages[0].Content == DefaultPrompts().Classifier {
				return "YES", nil
			}
			return "", errors.New("model overloaded")
		}

		_, err := assistant.Answer(context.Background(), "CALCULUS I", nil)
		assert.ErrorIs(t, err, ErrGenerationFailed)
		assert.Contains(t, err.Error(), "model overloaded")
	})

	t.Run("non-course generation failure", func(t *testing.T) {
		assistant, generator, _ := newTestAssistant(t)
		generator.GenerateFunc = func(_ context.Context, messages []ai.Message) (string, error) {
			if messages[0].Content == DefaultPrompts().Classifier {
				return "NO", nil
			}
			return "", errors.New("model overloaded")
		}

		_, err := assistant.Answer(context.Background(), "hello", nil)
		assert.ErrorIs(t, err, ErrGenerationFailed)
	})
}
