package query

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/geocatalog/internal/domain"
)

// Free-text compilation constants. Scores are mode-dependent: lexical
// scores are unbounded, vector similarities sit in [0,1] for normalized
// embeddings. They are never comparable across modes.
const (
	phraseSlop     = 5
	embeddingField = "_embedding"
	knnCandidates  = 10000
	languageField  = "_lang"
	queryLanguage  = "en"
)

// clauseCompiler turns the accumulated filters and free-text query into
// the payload's query node. The builder shares everything else across
// strategies. A nil node means the payload carries no query at all.
type clauseCompiler interface {
	compile(ctx context.Context, filters []map[string]any, text string) (map[string]any, error)
}

// baseClause compiles filters without any relevance ranking.
type baseClause struct{}

func (baseClause) compile(_ context.Context, filters []map[string]any, _ string) (map[string]any, error) {
	if len(filters) == 0 {
		return nil, nil
	}
	return map[string]any{"bool": map[string]any{"filter": filters}}, nil
}

// exactClause compiles the query text into an OR of phrase matches over
// title and description, with the accumulated filters in filter context.
type exactClause struct{}

// NewExact creates a builder for lexical (exact) search.
func NewExact(exec Executor, index string) *Builder {
	return newBuilder(exec, index, exactClause{})
}

func (exactClause) compile(ctx context.Context, filters []map[string]any, text string) (map[string]any, error) {
	if text == "" {
		return baseClause{}.compile(ctx, filters, text)
	}
	node := map[string]any{
		"should": []map[string]any{
			phraseMatch("title", text),
			phraseMatch("description", text),
		},
		"minimum_should_match": 1,
	}
	if len(filters) > 0 {
		node["filter"] = filters
	}
	return map[string]any{"bool": node}, nil
}

// phraseMatch tolerates up to phraseSlop intervening tokens. An empty or
// unanalyzable query matches nothing rather than everything.
func phraseMatch(field, text string) map[string]any {
	return map[string]any{
		"match_phrase": map[string]any{
			field: map[string]any{
				"query":            text,
				"slop":             phraseSlop,
				"analyzer":         "standard",
				"zero_terms_query": "none",
			},
		},
	}
}

// semanticClause resolves the query text to an embedding vector and
// compiles a k-nearest-neighbor clause. Filters constrain the vector
// search itself rather than post-filtering its results, and an English
// language filter is always added since the embedding model is
// English-only.
type semanticClause struct {
	embedder domain.Embedder
}

// NewSemantic creates a builder for vector (semantic) search.
func NewSemantic(exec Executor, index string, embedder domain.Embedder) *Builder {
	return newBuilder(exec, index, semanticClause{embedder: embedder})
}

func (c semanticClause) compile(ctx context.Context, filters []map[string]any, text string) (map[string]any, error) {
	if text == "" {
		return baseClause{}.compile(ctx, filters, text)
	}
	result, err := c.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	// Copy before appending: compile must not mutate builder state.
	knnFilters := make([]map[string]any, 0, len(filters)+1)
	knnFilters = append(knnFilters, filters...)
	knnFilters = append(knnFilters, map[string]any{
		"term": map[string]any{languageField: queryLanguage},
	})

	return map[string]any{
		"knn": map[string]any{
			"field":          embeddingField,
			"query_vector":   result.Embedding,
			"k":              knnCandidates,
			"num_candidates": knnCandidates,
			"filter":         knnFilters,
		},
	}, nil
}
