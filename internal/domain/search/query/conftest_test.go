package query

import (
	"context"

	"github.com/kailas-cloud/geocatalog/internal/domain"
	"github.com/kailas-cloud/geocatalog/internal/domain/search/response"
)

// mockExecutor captures the executed payload and returns a canned response.
type mockExecutor struct {
	raw       *response.Raw
	err       error
	called    bool
	lastIndex string
	lastBody  map[string]any
}

func (m *mockExecutor) Search(_ context.Context, index string, payload map[string]any) (*response.Raw, error) {
	m.called = true
	m.lastIndex = index
	m.lastBody = payload
	if m.err != nil {
		return nil, m.err
	}
	if m.raw != nil {
		return m.raw, nil
	}
	return &response.Raw{}, nil
}

// mockEmbedder returns a fixed vector for any text.
type mockEmbedder struct {
	vec    []float32
	err    error
	calls  int
	lastIn string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.calls++
	m.lastIn = text
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec, TotalTokens: 3}, nil
}
