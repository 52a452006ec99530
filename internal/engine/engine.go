// Package engine defines the search engine collaborator contract.
package engine

import (
	"context"

	"github.com/kailas-cloud/geocatalog/internal/domain/search/response"
)

// Engine executes compiled search payloads against a named index.
type Engine interface {
	// Search issues one payload and returns the raw engine response.
	// No retries; failures propagate to the caller.
	Search(ctx context.Context, index string, payload map[string]any) (*response.Raw, error)

	// Ping checks engine connectivity.
	Ping(ctx context.Context) error
}
