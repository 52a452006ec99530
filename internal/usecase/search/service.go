// Package search orchestrates the core catalog search operation: builder
// selection, filter and facet wiring, execution, and normalization.
package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/geocatalog/internal/domain/search/aggregation"
	"github.com/kailas-cloud/geocatalog/internal/domain/search/query"
	"github.com/kailas-cloud/geocatalog/internal/domain/search/request"
	"github.com/kailas-cloud/geocatalog/internal/domain/search/response"
)

// groupInnerHitsSize bounds how many member documents come back per group.
const groupInnerHitsSize = 10000

// standardFields are the per-hit projections the group extractor reads.
var standardFields = []string{"title", "description", "source.id", "source.title"}

// facets maps facet names to the record fields they aggregate, in
// registration order. Each facet compiles as an independent top-level
// aggregation; the source facet additionally resolves display titles
// through a nested size-1 terms aggregation on source.title.
var facets = []struct {
	name  string
	field string
}{
	{"keyword", "keyword"},
	{"format", "format"},
	{"protocol", "online.protocol"},
	{"organisation", "origOrgDesc"},
	{"source", "source.id"},
	{"ontology", "_ontology.ontology"},
	{"concept", "_ontology.concept"},
	{"individual", "_ontology.individual"},
	{"extractedKeyword", "_extracted_keyword"},
	{"extractedFiletype", "_extracted_filetype"},
}

// Service handles the faceted, grouped catalog search.
type Service struct {
	exec  Executor
	embed Embedder
	index string
}

// New creates a search service bound to one catalog index.
func New(exec Executor, embed Embedder, index string) *Service {
	return &Service{exec: exec, embed: embed, index: index}
}

// Search compiles and executes one catalog search and normalizes the
// engine response into the external contract.
func (s *Service) Search(ctx context.Context, params *request.Params) (response.Results, error) {
	b := s.builderFor(params).
		MinScore(params.MinScore()).
		Page(params.Page()).
		RecordsPerPage(params.RecordsPerPage()).
		Fields(standardFields...).
		Source(false).
		Collapse(response.GroupField, map[string]any{
			"name":    response.InnerHitsName,
			"size":    groupInnerHitsSize,
			"_source": []string{"id", "_geom"},
		})

	if box := params.BoundingBox(); box != nil {
		b.BoundingBox(*box, params.Predicate())
	}
	if params.TimeStart() != nil || params.TimeEnd() != nil {
		b.Between(params.TimeStart(), params.TimeEnd())
	}
	for _, f := range params.Filters() {
		b.Filter(f.Field, f.Values...)
	}

	if err := attachFacets(b, params); err != nil {
		return response.Results{}, err
	}

	raw, err := b.Execute(ctx)
	if err != nil {
		return response.Results{}, fmt.Errorf("execute search: %w", err)
	}

	return response.Normalize(raw, params.Page(), params.RecordsPerPage(), params.Significance()), nil
}

// builderFor selects the query compilation strategy: no query text means
// a plain filter query, otherwise the requested method decides between
// lexical and vector search.
func (s *Service) builderFor(params *request.Params) *query.Builder {
	if params.Query() == "" {
		return query.New(s.exec, s.index)
	}
	if params.Method() == request.MethodExact {
		return query.NewExact(s.exec, s.index).Query(params.Query())
	}
	return query.NewSemantic(s.exec, s.index, s.embed).Query(params.Query())
}

// attachFacets registers the ten facet aggregations plus the distinct
// group counter that drives pagination. The source title companion is
// registered before the source facet so the compiled tree keys the pair
// by "source" with the title resolution nested inside each bucket.
func attachFacets(b *query.Builder, params *request.Params) error {
	facetType := aggregation.Terms
	if params.Significance() {
		facetType = aggregation.SignificantTerms
	}

	for _, f := range facets {
		var spec aggregation.Spec
		if f.name == "source" {
			if err := spec.Add(response.SourceTitleAggregation, aggregation.Terms, "source.title", 1); err != nil {
				return fmt.Errorf("register facet %s: %w", f.name, err)
			}
		}
		if err := spec.Add(f.name, facetType, f.field, params.TermsSize()); err != nil {
			return fmt.Errorf("register facet %s: %w", f.name, err)
		}
		b.Aggregations(&spec)
	}

	var counter aggregation.Spec
	if err := counter.Add(response.GroupCountAggregation, aggregation.Cardinality, response.GroupField, 0); err != nil {
		return fmt.Errorf("register group counter: %w", err)
	}
	b.Aggregations(&counter)
	return nil
}
