package mock

import (
	"context"
	"sync"

	"github.com/poiesic/coursefinder/ai"
)

// MockGenerator is a test double for ai.Generator.
// It records every conversation it receives.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, the content of the last user message is echoed back.
	GenerateFunc func(ctx context.Context, messages []ai.Message) (string, error)

	mu        sync.Mutex
	callCount int
	calls     [][]ai.Message
}

// NewMockGenerator creates a mock generator with default echo behavior.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate records the messages and returns the scripted or echoed response.
func (m *MockGenerator) Generate(ctx context.Context, messages []ai.Message) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.calls = append(m.calls, append([]ai.Message(nil), messages...))
	fn := m.GenerateFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, messages)
	}

	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == ai.RoleUser {
			return messages[i].Content, nil
		}
	}
	return "", nil
}

// CallCount returns the number of times Generate was called.
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Calls returns a copy of every message list passed to Generate, in call order.
func (m *MockGenerator) Calls() [][]ai.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]ai.Message(nil), m.calls...)
}

// Reset clears the call history and custom function.
func (m *MockGenerator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.calls = nil
	m.GenerateFunc = nil
}
