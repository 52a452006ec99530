// Package query builds engine search payloads through a fluent builder.
// The builder accumulates filters, paging, projections, and aggregations
// shared by all query modes; how the free-text query itself is compiled is
// a pluggable strategy (lexical phrase matching, vector kNN, or none).
package query

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/geocatalog/internal/domain/geo"
	"github.com/kailas-cloud/geocatalog/internal/domain/search/aggregation"
	"github.com/kailas-cloud/geocatalog/internal/domain/search/response"
)

// Record fields referenced by compiled filters.
const (
	geometryField        = "_geom"
	timeExtentStartField = "timeExtentStart"
	timeExtentEndField   = "timeExtentEnd"
)

// Executor issues one compiled payload against a target index and returns
// the raw response. Implementations perform no retries; failures propagate
// to the caller unchanged.
type Executor interface {
	Search(ctx context.Context, index string, payload map[string]any) (*response.Raw, error)
}

// Builder accumulates one search query. Builders are request-scoped: build,
// compile, execute once. They are not safe for concurrent use.
type Builder struct {
	exec   Executor
	index  string
	clause clauseCompiler

	text        string
	rawQuery    map[string]any
	minScore    float64
	hasMinScore bool
	page        int
	perPage     int
	filters     []map[string]any
	aggs        map[string]any
	options     map[string]any

	err error
}

// New creates a builder without free-text relevance: accumulated filters
// compile into a plain boolean filter query.
func New(exec Executor, index string) *Builder {
	return newBuilder(exec, index, baseClause{})
}

func newBuilder(exec Executor, index string, clause clauseCompiler) *Builder {
	return &Builder{
		exec:    exec,
		index:   index,
		clause:  clause,
		page:    1,
		options: map[string]any{},
	}
}

// Query sets the free-text query string.
func (b *Builder) Query(text string) *Builder {
	b.text = text
	return b
}

// Raw overrides query compilation with a verbatim query node. Used by
// lookup endpoints that address records directly.
func (b *Builder) Raw(query map[string]any) *Builder {
	b.rawQuery = query
	return b
}

// MinScore sets the relevance threshold below which hits are dropped.
func (b *Builder) MinScore(v float64) *Builder {
	b.minScore = v
	b.hasMinScore = true
	return b
}

// Page sets the 1-based result page.
func (b *Builder) Page(n int) *Builder {
	b.page = n
	return b
}

// RecordsPerPage sets the page size; paging offsets derive from it.
func (b *Builder) RecordsPerPage(n int) *Builder {
	b.perPage = n
	return b
}

// BoundingBox appends a spatial filter. The predicate picks the engine
// geo_shape relation; an unrecognized predicate fails the build.
func (b *Builder) BoundingBox(box geo.BoundingBox, predicate geo.Predicate) *Builder {
	relation, err := predicate.Relation()
	if err != nil {
		return b.fail(err)
	}
	b.filters = append(b.filters, map[string]any{
		"geo_shape": map[string]any{
			geometryField: map[string]any{
				"shape": map[string]any{
					"type":        "envelope",
					"coordinates": box.Envelope(),
				},
				"relation": relation,
			},
		},
	})
	return b
}

// Between appends temporal overlap filters. A record matches when its
// extent overlaps the requested window: its end is at or after from, and
// its start is at or before to. Either bound may be nil.
func (b *Builder) Between(from, to *time.Time) *Builder {
	if from != nil {
		b.filters = append(b.filters, map[string]any{
			"range": map[string]any{
				timeExtentEndField: map[string]any{"gte": from.UTC().Format(time.RFC3339)},
			},
		})
	}
	if to != nil {
		b.filters = append(b.filters, map[string]any{
			"range": map[string]any{
				timeExtentStartField: map[string]any{"lte": to.UTC().Format(time.RFC3339)},
			},
		})
	}
	return b
}

// Filter appends a categorical filter: an exact term clause for a single
// value, a set-membership clause for several.
func (b *Builder) Filter(field string, values ...string) *Builder {
	switch len(values) {
	case 0:
		return b
	case 1:
		b.filters = append(b.filters, map[string]any{"term": map[string]any{field: values[0]}})
	default:
		b.filters = append(b.filters, map[string]any{"terms": map[string]any{field: values}})
	}
	return b
}

// Aggregations merges a compiled aggregation tree into the cumulative
// aggregation map, keyed by the tree's top-level name. A later spec with a
// colliding top-level name overwrites the earlier one.
func (b *Builder) Aggregations(spec *aggregation.Spec) *Builder {
	if spec.Len() == 0 {
		return b
	}
	if b.aggs == nil {
		b.aggs = map[string]any{}
	}
	for name, node := range spec.Tree() {
		b.aggs[name] = node
	}
	return b
}

// Fields sets the flat field projections returned with each hit.
func (b *Builder) Fields(fields ...string) *Builder {
	return b.Option("fields", fields)
}

// Source controls _source inclusion: false, a field list, or an
// includes/excludes spec. Passed through to the payload unvalidated.
func (b *Builder) Source(spec any) *Builder {
	return b.Option("_source", spec)
}

// Collapse returns one representative hit per distinct value of field,
// with member documents nested under the named inner-hits block.
func (b *Builder) Collapse(field string, innerHits map[string]any) *Builder {
	collapse := map[string]any{"field": field}
	if innerHits != nil {
		collapse["inner_hits"] = innerHits
	}
	return b.Option("collapse", collapse)
}

// Size overrides the hit count independently of paging (e.g. 0 for
// aggregation-only queries).
func (b *Builder) Size(n int) *Builder {
	return b.Option("size", n)
}

// Option stores a pass-through payload key merged verbatim at compile
// time, after the computed keys. Escape hatch for rare engine options.
func (b *Builder) Option(key string, value any) *Builder {
	b.options[key] = value
	return b
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// Compile assembles the engine payload. Compilation does not mutate the
// builder: calling it twice on an unmutated builder yields deep-equal
// payloads (semantic compilation re-embeds the query text, which is
// deterministic per the Embedder contract).
func (b *Builder) Compile(ctx context.Context) (map[string]any, error) {
	if b.err != nil {
		return nil, b.err
	}

	payload := map[string]any{}
	if b.hasMinScore {
		payload["min_score"] = b.minScore
	}

	queryNode, err := b.compileQueryNode(ctx)
	if err != nil {
		return nil, err
	}
	if queryNode != nil {
		payload["query"] = queryNode
	}

	if b.perPage > 0 {
		payload["from"] = b.perPage * (b.page - 1)
		payload["size"] = b.perPage
	}
	for key, value := range b.options {
		payload[key] = value
	}
	if len(b.aggs) > 0 {
		payload["aggs"] = b.aggs
	}
	return payload, nil
}

func (b *Builder) compileQueryNode(ctx context.Context) (map[string]any, error) {
	if b.rawQuery != nil {
		return b.rawQuery, nil
	}
	node, err := b.clause.compile(ctx, b.filters, b.text)
	if err != nil {
		return nil, fmt.Errorf("compile query clause: %w", err)
	}
	return node, nil
}

// Execute compiles the payload and sends it to the engine. This is the
// single suspension point; engine failures propagate unchanged.
func (b *Builder) Execute(ctx context.Context) (*response.Raw, error) {
	payload, err := b.Compile(ctx)
	if err != nil {
		return nil, err
	}
	return b.exec.Search(ctx, b.index, payload)
}
