// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package qa

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/coursefinder/ai"
	"github.com/poiesic/coursefinder/core"
	"github.com/poiesic/coursefinder/storage"
)

const (
	// DefaultTopK is the number of course documents retrieved per question.
	DefaultTopK = 3

	// DefaultHistoryLimit is the number of previous messages folded into the prompt.
	DefaultHistoryLimit = 6
)

// Answer is the reply to a question.
type Answer struct {
	Answer          string   `json:"answer"`
	RelevantCourses []string `json:"relevant_courses"`
}

// Assistant answers course questions with retrieve-then-generate.
type Assistant struct {
	index        storage.VectorIndex
	embedder     ai.Embedder
	generator    ai.Generator
	prompts      Prompts
	topK         int
	historyLimit int
	logger       *slog.Logger
}

// Option configures an Assistant.
type Option func(*Assistant) error

// WithPrompts replaces the built-in prompts. Empty fields keep the default.
func WithPrompts(p Prompts) Option {
	return func(a *Assistant) error {
		if p.Course != "" {
			a.prompts.Course = p.Course
		}
		if p.Classifier != "" {
			a.prompts.Classifier = p.Classifier
		}
		if p.NonCourse != "" {
			a.prompts.NonCourse = p.NonCourse
		}
		return nil
	}
}

// WithTopK sets how many course documents are retrieved.
// Default is 3.
func WithTopK(k int) Option {
	return func(a *Assistant) error {
		if k < 1 {
			return fmt.Errorf("topK must be positive, got %d", k)
		}
		a.topK = k
		return nil
	}
}

// WithHistoryLimit sets how many previous messages are kept. Zero drops history.
// Default is 6.
func WithHistoryLimit(n int) Option {
	return func(a *Assistant) error {
		if n < 0 {
			return fmt.Errorf("history limit cannot be negative, got %d", n)
		}
		a.historyLimit = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assistant) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// NewAssistant creates an assistant that retrieves from index and uses the
// provider's embedder and generator.
func NewAssistant(index storage.VectorIndex, provider ai.AIProvider, opts ...Option) (*Assistant, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	a := &Assistant{
		index:        index,
		embedder:     provider.Embedder(),
		generator:    provider.Generator(),
		prompts:      DefaultPrompts(),
		topK:         DefaultTopK,
		historyLimit: DefaultHistoryLimit,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	a.logger = a.logger.With("component", "qa")

	return a, nil
}

// Answer replies to question, using history to resolve follow-ups.
func (a *Assistant) Answer(ctx context.Context, question string, history []ai.Message) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	if !a.isCourseRelated(ctx, question) {
		reply, err := a.generator.Generate(ctx, []ai.Message{
			ai.SystemMessage(a.prompts.NonCourse),
			ai.UserMessage(question),
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
		}
		return &Answer{Answer: reply, RelevantCourses: []string{}}, nil
	}

	embedding, err := a.embedder.EmbedText(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: embed question: %w", ErrRetrievalFailed, err)
	}

	matches, err := a.index.Query(ctx, embedding, a.topK)
	if err != nil {
		return nil, fmt.Errorf("%w: query index: %w", ErrRetrievalFailed, err)
	}

	contextParts := make([]string, 0, len(matches))
	courses := make([]string, 0, len(matches))
	for _, match := range matches {
		contextParts = append(contextParts, match.Metadata[core.MetadataText])
		code := match.Metadata[core.MetadataCode]
		if code == "" {
			code = match.ID
		}
		courses = append(courses, code)
	}
	a.logger.Debug("retrieved course context", "matches", len(matches), "courses", courses)

	prompt := fmt.Sprintf("Question: %s%s\n\nRelevant Course Information:\n%s",
		question, a.conversation(history), strings.Join(contextParts, "\n\n"))

	reply, err := a.generator.Generate(ctx, []ai.Message{
		ai.SystemMessage(a.prompts.Course),
		ai.UserMessage(prompt),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	return &Answer{Answer: reply, RelevantCourses: courses}, nil
}

// isCourseRelated treats classifier failures as related so the question
// still gets course context.
func (a *Assistant) isCourseRelated(ctx context.Context, question string) bool {
	reply, err := a.generator.Generate(ctx, []ai.Message{
		ai.SystemMessage(a.prompts.Classifier),
		ai.UserMessage("Is this question related to university courses or academics?\n\nQuestion: " + question),
	})
	if err != nil {
		a.logger.Warn("question classification failed", "err", err)
		return true
	}
	return strings.ToUpper(strings.TrimSpace(reply)) == "YES"
}

// conversation renders the most recent history messages.
func (a *Assistant) conversation(history []ai.Message) string {
	if len(history) == 0 || a.historyLimit == 0 {
		return ""
	}
	if len(history) > a.historyLimit {
		history = history[len(history)-a.historyLimit:]
	}

	var b strings.Builder
	b.WriteString("\n\nPrevious Conversation:\n")
	for _, msg := range history {
		speaker := "Assistant"
		if msg.Role == ai.RoleUser {
			speaker = "User"
		}
		fmt.Fprintf(&b, "%s: %s\n", speaker, msg.Content)
	}
	b.WriteString("\n")
	return b.String()
}
