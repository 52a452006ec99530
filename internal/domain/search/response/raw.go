// Package response models the raw engine search response and reshapes it
// into the stable external API contract: paginated groups, per-facet term
// lists, and a GeoJSON feature collection.
package response

import "encoding/json"

// Raw is the engine search response envelope. Only the parts this service
// reads are modeled; unknown keys are ignored.
type Raw struct {
	Took         int                    `json:"took"`
	Hits         Hits                   `json:"hits"`
	Aggregations map[string]Aggregation `json:"aggregations"`
}

// Hits is the top-level hit envelope.
type Hits struct {
	Total Total `json:"total"`
	Hits  []Hit `json:"hits"`
}

// Total is the engine hit count with its relation qualifier.
type Total struct {
	Value    int    `json:"value"`
	Relation string `json:"relation"`
}

// Hit is one top-level (collapsed) hit.
type Hit struct {
	ID        string               `json:"_id"`
	Score     float64              `json:"_score"`
	Fields    Fields               `json:"fields"`
	Source    map[string]any       `json:"_source"`
	InnerHits map[string]InnerHits `json:"inner_hits"`
}

// Fields holds flat field projections. The engine always returns field
// values as arrays, even for single-valued fields.
type Fields map[string][]json.RawMessage

// First returns the first value of a projected field as a string, or the
// empty string when the field is absent or not textual.
func (f Fields) First(key string) string {
	vals := f[key]
	if len(vals) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(vals[0], &s); err != nil {
		return ""
	}
	return s
}

// FirstRaw returns the first value of a projected field unparsed, or nil.
func (f Fields) FirstRaw(key string) json.RawMessage {
	vals := f[key]
	if len(vals) == 0 {
		return nil
	}
	return vals[0]
}

// InnerHits is one named inner-hits block of a collapsed hit.
type InnerHits struct {
	Hits InnerHitsList `json:"hits"`
}

// InnerHitsList carries the member documents of a collapsed group.
type InnerHitsList struct {
	Total Total      `json:"total"`
	Hits  []InnerHit `json:"hits"`
}

// InnerHit is one member document inside a collapsed group.
type InnerHit struct {
	ID     string      `json:"_id"`
	Source InnerSource `json:"_source"`
}

// InnerSource is the restricted member projection: id plus stored geometry.
type InnerSource struct {
	ID   string          `json:"id"`
	Geom json.RawMessage `json:"_geom"`
}

// Aggregation is either a bucketed facet or a single-valued metric
// (cardinality uses Value, terms variants use Buckets).
type Aggregation struct {
	Value   float64  `json:"value"`
	Buckets []Bucket `json:"buckets"`
}

// Bucket is one facet term. Background count and significance score are
// only present for significant-terms aggregations; SourceTitle carries the
// nested label-resolution buckets for source facets.
type Bucket struct {
	Key         any          `json:"key"`
	DocCount    int          `json:"doc_count"`
	BgCount     int          `json:"bg_count"`
	Score       float64      `json:"score"`
	SourceTitle *Aggregation `json:"source_title"`
}
