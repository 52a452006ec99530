// Package aggregation describes the facet computations attached to a
// search query: terms and significant-terms frequency lists plus a
// cardinality count, compiled into the engine's nested aggregation tree.
package aggregation

import (
	"fmt"

	"github.com/kailas-cloud/geocatalog/internal/domain"
)

// Type is the aggregation kind requested from the engine.
type Type string

// Supported aggregation types.
const (
	Terms            Type = "terms"
	SignificantTerms Type = "significant_terms"
	Cardinality      Type = "cardinality"
)

type entry struct {
	name  string
	typ   Type
	field string
	size  int
}

// Spec is an ordered list of facet registrations compiled into one nested
// aggregation tree. The zero value is ready to use.
type Spec struct {
	entries []entry
	names   map[string]struct{}
}

// Add registers one facet computation. Size 0 omits the size option
// (cardinality aggregations never carry one). Registering the same name
// twice is a programmer error and fails immediately.
func (s *Spec) Add(name string, typ Type, field string, size int) error {
	if _, dup := s.names[name]; dup {
		return fmt.Errorf("%w: %q", domain.ErrDuplicateAggregation, name)
	}
	if s.names == nil {
		s.names = make(map[string]struct{})
	}
	s.names[name] = struct{}{}
	s.entries = append(s.entries, entry{name: name, typ: typ, field: field, size: size})
	return nil
}

// Len returns the number of registered aggregations.
func (s *Spec) Len() int { return len(s.entries) }

// OuterName returns the name the compiled tree is keyed by: the name of
// the last-added aggregation. Empty for an empty spec.
func (s *Spec) OuterName() string {
	if len(s.entries) == 0 {
		return ""
	}
	return s.entries[len(s.entries)-1].name
}

// Tree folds the registrations into the engine's singly-nested shape.
// Each subsequent registration wraps all previous ones under its "aggs"
// key, so the last-added aggregation is the outermost node. This inverted
// order is load-bearing: existing clients stitch nested buckets back
// together by position, so insertion order must never become nesting
// order here.
func (s *Spec) Tree() map[string]any {
	tree := map[string]any{}
	for i, e := range s.entries {
		body := map[string]any{"field": e.field}
		if e.typ != Cardinality && e.size > 0 {
			body["size"] = e.size
		}
		node := map[string]any{string(e.typ): body}
		if i > 0 {
			node["aggs"] = tree
		}
		tree = map[string]any{e.name: node}
	}
	return tree
}
