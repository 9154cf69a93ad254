package qa

import "errors"

var (
	// ErrIndexRequired is returned when an assistant is created without a vector index.
	ErrIndexRequired = errors.New("vector index required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrEmptyQuestion is returned for an empty or whitespace-only question.
	ErrEmptyQuestion = errors.New("question is required")

	// ErrRetrievalFailed wraps embedding and index failures while gathering context.
	ErrRetrievalFailed = errors.New("course retrieval failed")

	// ErrGenerationFailed wraps chat completion failures.
	ErrGenerationFailed = errors.New("answer generation failed")
)
