// Package request holds the validated search parameters for one call.
package request

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/geocatalog/internal/domain"
	"github.com/kailas-cloud/geocatalog/internal/domain/geo"
)

// Method selects how a free-text query is executed.
type Method string

// Supported query methods.
const (
	MethodExact    Method = "exact"
	MethodSemantic Method = "semantic"
)

// IsValid checks if the method is one of the supported values.
func (m Method) IsValid() bool {
	return m == MethodExact || m == MethodSemantic
}

// Search parameter defaults and limits.
const (
	DefaultMinScore       = 0.6
	DefaultRecordsPerPage = 10
	MaxRecordsPerPage     = 100
	DefaultTermsSize      = 50
)

// Filter is one categorical constraint: exact match for a single value,
// set membership for several. Filters combine as a conjunction.
type Filter struct {
	Field  string
	Values []string
}

// Input carries unvalidated search parameters into New.
type Input struct {
	Query          string
	Method         Method
	MinScore       *float64
	Page           int
	RecordsPerPage int
	BoundingBox    *geo.BoundingBox
	Predicate      geo.Predicate
	TimeStart      *time.Time
	TimeEnd        *time.Time
	Filters        []Filter
	TermsSize      int
	Significance   *bool
}

// Params is a validated search request.
type Params struct {
	query          string
	method         Method
	minScore       float64
	page           int
	recordsPerPage int
	boundingBox    *geo.BoundingBox
	predicate      geo.Predicate
	timeStart      *time.Time
	timeEnd        *time.Time
	filters        []Filter
	termsSize      int
	significance   bool
}

// New validates and normalizes search parameters. Defaults: method
// semantic, minScore 0.6, page 1, recordsPerPage 10 (capped at 100),
// predicate overlaps, termsSize 50, significance ranking on.
func New(in Input) (Params, error) {
	method := in.Method
	if method == "" {
		method = MethodSemantic
	}
	if !method.IsValid() {
		return Params{}, fmt.Errorf("%w: unknown query method %q", domain.ErrInvalidRequest, in.Method)
	}

	if in.Page < 0 {
		return Params{}, fmt.Errorf("%w: page must be positive", domain.ErrInvalidRequest)
	}
	page := in.Page
	if page == 0 {
		page = 1
	}

	perPage := in.RecordsPerPage
	if perPage == 0 {
		perPage = DefaultRecordsPerPage
	}
	if perPage < 0 || perPage > MaxRecordsPerPage {
		return Params{}, fmt.Errorf("%w: recordsPerPage must be between 1 and %d", domain.ErrInvalidRequest, MaxRecordsPerPage)
	}

	predicate := in.Predicate
	if predicate == "" {
		predicate = geo.PredicateOverlaps
	}
	if in.BoundingBox != nil {
		if _, err := predicate.Relation(); err != nil {
			return Params{}, err
		}
	}

	minScore := DefaultMinScore
	if in.MinScore != nil {
		minScore = *in.MinScore
	}

	termsSize := in.TermsSize
	if termsSize <= 0 {
		termsSize = DefaultTermsSize
	}

	significance := true
	if in.Significance != nil {
		significance = *in.Significance
	}

	return Params{
		query:          in.Query,
		method:         method,
		minScore:       minScore,
		page:           page,
		recordsPerPage: perPage,
		boundingBox:    in.BoundingBox,
		predicate:      predicate,
		timeStart:      in.TimeStart,
		timeEnd:        in.TimeEnd,
		filters:        in.Filters,
		termsSize:      termsSize,
		significance:   significance,
	}, nil
}

// Query returns the free-text query, empty for filter-only searches.
func (p *Params) Query() string { return p.query }

// Method returns the query method.
func (p *Params) Method() Method { return p.method }

// MinScore returns the relevance threshold.
func (p *Params) MinScore() float64 { return p.minScore }

// Page returns the 1-based page number.
func (p *Params) Page() int { return p.page }

// RecordsPerPage returns the group page size.
func (p *Params) RecordsPerPage() int { return p.recordsPerPage }

// BoundingBox returns the spatial envelope, nil when absent.
func (p *Params) BoundingBox() *geo.BoundingBox { return p.boundingBox }

// Predicate returns the spatial predicate.
func (p *Params) Predicate() geo.Predicate { return p.predicate }

// TimeStart returns the lower temporal bound, nil when absent.
func (p *Params) TimeStart() *time.Time { return p.timeStart }

// TimeEnd returns the upper temporal bound, nil when absent.
func (p *Params) TimeEnd() *time.Time { return p.timeEnd }

// Filters returns the categorical filters in registration order.
func (p *Params) Filters() []Filter { return p.filters }

// TermsSize returns the facet bucket-size limit.
func (p *Params) TermsSize() int { return p.termsSize }

// Significance reports whether facets use significance ranking.
func (p *Params) Significance() bool { return p.significance }
