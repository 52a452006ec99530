package response

import "github.com/kailas-cloud/geocatalog/internal/domain/geo"

// Well-known names shared between query wiring and normalization.
const (
	// GroupField is the grouping key field records are collapsed on.
	GroupField = "_group"
	// InnerHitsName is the inner-hits block name used for group members.
	InnerHitsName = "grouped"
	// GroupCountAggregation is the cardinality aggregation counting
	// distinct groups; it drives pagination and is never rendered as a
	// facet.
	GroupCountAggregation = "group_number"
	// SourceTitleAggregation resolves a source id to its display title
	// inside each source facet bucket.
	SourceTitleAggregation = "source_title"
)

// Results is the external search contract. Field names and nesting are
// part of the stable API and must round-trip through serialization
// unchanged.
type Results struct {
	Page             int                   `json:"page"`
	TotalPages       int                   `json:"totalPages"`
	NumberOfResults  int                   `json:"numberOfResults"`
	Data             []Group               `json:"data"`
	SignificantTerms map[string][]Term     `json:"significantTerms"`
	GeoJSON          geo.FeatureCollection `json:"geoJson"`
}

// Group is one cluster of records sharing title, description, and
// originator organisation. Groups are the unit of pagination.
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

// Term is one facet entry. BgFreq and Score are present only when
// significance ranking was requested; TermID only for source facets where
// Term carries the resolved display title instead of the raw key.
type Term struct {
	Term   string   `json:"term"`
	Freq   int      `json:"freq"`
	BgFreq *int     `json:"bgFreq,omitempty"`
	Score  *float64 `json:"score,omitempty"`
	TermID string   `json:"termId,omitempty"`
}
