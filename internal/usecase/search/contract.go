package search

import (
	"context"

	"github.com/kailas-cloud/geocatalog/internal/domain"
	"github.com/kailas-cloud/geocatalog/internal/domain/search/response"
)

// Executor issues compiled search payloads against an index.
type Executor interface {
	Search(ctx context.Context, index string, payload map[string]any) (*response.Raw, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
