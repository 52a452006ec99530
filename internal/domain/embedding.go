package domain

import "context"

// EmbeddingResult is the outcome of vectorizing a query string.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Embedder vectorizes text. Implementations must be deterministic for the
// same input text so that compiled query payloads stay idempotent.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}
