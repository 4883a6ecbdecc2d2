package core

import (
	"context"

	"github.com/markdave123-py/Appcraft/internal/models"
)

// CompletionRequest is everything the provider sees for one generation.
type CompletionRequest struct {
	SystemPrompt string
	History      []models.Turn
	Prompt       string
}

// LLMProvider is the single "generate text from prompt" capability the
// generator depends on. Provider-specific response shapes never leave the adapter.
type LLMProvider interface {
	Generate(ctx context.Context, req CompletionRequest) (string, error)
	// GenerateStream calls onChunk with every partial text as it arrives and
	// returns the full concatenated text.
	GenerateStream(ctx context.Context, req CompletionRequest, onChunk func(chunk string)) (string, error)
	Model() string
}
