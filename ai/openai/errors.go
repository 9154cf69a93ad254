package openai

import "errors"

var (
	// ErrNoChoices is returned when the chat service answers without any completion choice.
	ErrNoChoices = errors.New("model returned no choices")

	// ErrConfigRequired is returned when a constructor is given a nil config.
	ErrConfigRequired = errors.New("ai config is required")
)
