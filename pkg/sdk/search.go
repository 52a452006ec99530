package geocatalog

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"
)

// Query methods.
const (
	MethodSemantic = "semantic"
	MethodExact    = "exact"
)

// Spatial predicates for bounding-box constraints.
const (
	PredicateOverlaps = "overlaps"
	PredicateContains = "contains"
	PredicateDisjoint = "disjoint"
)

// SearchOptions configures one search request. Zero values are omitted
// from the request; the server applies its own defaults.
type SearchOptions struct {
	Query          string
	Method         string // MethodSemantic or MethodExact
	MinScore       *float64
	Page           int
	RecordsPerPage int

	// BBox is "west,south,east,north"; Predicate selects how record
	// geometries relate to it.
	BBox      string
	Predicate string

	TimeStart *time.Time
	TimeEnd   *time.Time

	// Filters maps query parameter names (sources, keyword, format,
	// protocol, organisationName, ontology, concept, individual,
	// extractedKeyword, extractedFiletype) to their values.
	Filters map[string][]string

	TermsSize    int
	Significance *bool
}

// SearchResults is the paginated search response.
type SearchResults struct {
	Page             int               `json:"page"`
	TotalPages       int               `json:"totalPages"`
	NumberOfResults  int               `json:"numberOfResults"`
	Data             []Group           `json:"data"`
	SignificantTerms map[string][]Term `json:"significantTerms"`
	GeoJSON          json.RawMessage   `json:"geoJson"`
}

// Group is one collapsed result group.
type Group struct {
	GroupID     string   `json:"groupId"`
	MemberCount int      `json:"memberCount"`
	Members     []string `json:"members"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	OrigOrgID   string   `json:"origOrgId"`
	OrigOrgDesc string   `json:"origOrgDesc"`
	Score       float64  `json:"score"`
}

// Term is one facet entry. BgFreq and Score are present only when the
// server ranks facets by significance.
type Term struct {
	Term   string   `json:"term"`
	Freq   int      `json:"freq"`
	BgFreq *int     `json:"bgFreq,omitempty"`
	Score  *float64 `json:"score,omitempty"`
	TermID string   `json:"termId,omitempty"`
}

// Search executes a catalog search.
func (c *Client) Search(ctx context.Context, opts SearchOptions) (SearchResults, error) {
	var results SearchResults
	if err := c.get(ctx, "/search", searchQuery(opts), &results); err != nil {
		return SearchResults{}, err
	}
	return results, nil
}

func searchQuery(opts SearchOptions) url.Values {
	q := url.Values{}
	setNonEmpty(q, "query", opts.Query)
	setNonEmpty(q, "queryMethod", opts.Method)
	if opts.MinScore != nil {
		q.Set("minScore", strconv.FormatFloat(*opts.MinScore, 'f', -1, 64))
	}
	setPositive(q, "page", opts.Page)
	setPositive(q, "recordsPerPage", opts.RecordsPerPage)
	setNonEmpty(q, "bbox", opts.BBox)
	setNonEmpty(q, "spatialPredicate", opts.Predicate)
	if opts.TimeStart != nil {
		q.Set("timeStart", opts.TimeStart.UTC().Format(time.RFC3339))
	}
	if opts.TimeEnd != nil {
		q.Set("timeEnd", opts.TimeEnd.UTC().Format(time.RFC3339))
	}
	setPositive(q, "termsSize", opts.TermsSize)
	if opts.Significance != nil {
		q.Set("termsSignificance", strconv.FormatBool(*opts.Significance))
	}
	for param, values := range opts.Filters {
		if len(values) > 0 {
			q.Set(param, joinCommaList(values))
		}
	}
	return q
}

func setNonEmpty(q url.Values, name, value string) {
	if value != "" {
		q.Set(name, value)
	}
}

func setPositive(q url.Values, name string, value int) {
	if value > 0 {
		q.Set(name, strconv.Itoa(value))
	}
}
