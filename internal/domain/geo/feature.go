package geo

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkt"
)

// FeatureCollection is the GeoJSON collection returned to API clients.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// NewFeatureCollection wraps features, never serializing a null feature list.
func NewFeatureCollection(features []Feature) FeatureCollection {
	if features == nil {
		features = []Feature{}
	}
	return FeatureCollection{Type: "FeatureCollection", Features: features}
}

// Feature is one record geometry with its group id. Geometry is omitted
// when the stored shape could not be converted.
type Feature struct {
	Type       string            `json:"type"`
	ID         string            `json:"id"`
	Geometry   json.RawMessage   `json:"geometry,omitempty"`
	Properties FeatureProperties `json:"properties"`
}

// FeatureProperties carries the group a record belongs to.
type FeatureProperties struct {
	GroupID string `json:"groupId"`
}

// NewFeature builds a GeoJSON feature from a stored geometry. The stored
// value is either a list of WKT strings (ingest format) or a native
// GeoJSON shape object. Conversion failures yield a feature without a
// geometry rather than an error: one malformed shape must not take down
// the whole response.
func NewFeature(id string, stored json.RawMessage, groupID string) Feature {
	f := Feature{Type: "Feature", ID: id, Properties: FeatureProperties{GroupID: groupID}}
	if g, err := ConvertGeometry(stored); err == nil {
		f.Geometry = g
	}
	return f
}

// ConvertGeometry normalizes a stored geometry to GeoJSON. Returns nil
// (and no error) when there is nothing to convert.
func ConvertGeometry(stored json.RawMessage) (json.RawMessage, error) {
	if len(stored) == 0 || string(stored) == "null" {
		return nil, nil
	}

	var wkts []string
	if err := json.Unmarshal(stored, &wkts); err == nil {
		if len(wkts) == 0 {
			return nil, nil
		}
		return wktToGeoJSON(wkts[0])
	}

	var single string
	if err := json.Unmarshal(stored, &single); err == nil {
		return wktToGeoJSON(single)
	}

	// Native shape object: decode and re-encode so only valid GeoJSON
	// reaches the response.
	var g geom.T
	if err := geojson.Unmarshal(stored, &g); err != nil {
		return nil, fmt.Errorf("decode geojson shape: %w", err)
	}
	out, err := geojson.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("encode geojson shape: %w", err)
	}
	return out, nil
}

func wktToGeoJSON(s string) (json.RawMessage, error) {
	g, err := parseShape(s)
	if err != nil {
		return nil, err
	}
	out, err := geojson.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("encode geometry: %w", err)
	}
	return out, nil
}

// parseShape understands standard WKT plus the ingest pipeline's
// BBOX(west, east, north, south) envelope shorthand.
func parseShape(s string) (geom.T, error) {
	trimmed := strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(trimmed, "BBOX("); ok {
		return parseBBOXShape(rest)
	}
	g, err := wkt.Unmarshal(trimmed)
	if err != nil {
		return nil, fmt.Errorf("decode wkt: %w", err)
	}
	return g, nil
}

func parseBBOXShape(rest string) (geom.T, error) {
	body, ok := strings.CutSuffix(rest, ")")
	if !ok {
		return nil, fmt.Errorf("decode bbox shape: missing closing parenthesis")
	}
	parts := strings.Split(body, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("decode bbox shape: expected 4 coordinates, got %d", len(parts))
	}
	coords := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("decode bbox shape: %w", err)
		}
		coords[i] = v
	}
	west, east, north, south := coords[0], coords[1], coords[2], coords[3]
	ring := []float64{
		west, south,
		east, south,
		east, north,
		west, north,
		west, south,
	}
	return geom.NewPolygonFlat(geom.XY, ring, []int{len(ring)}), nil
}

// UnionEnvelope computes the [west,south,east,north] envelope covering all
// given GeoJSON geometries. Returns nil when none decode.
func UnionEnvelope(geometries []json.RawMessage) []float64 {
	var bounds *geom.Bounds
	for _, raw := range geometries {
		if len(raw) == 0 || string(raw) == "null" {
			continue
		}
		var g geom.T
		if err := geojson.Unmarshal(raw, &g); err != nil {
			continue
		}
		if bounds == nil {
			bounds = g.Bounds()
		} else {
			bounds = bounds.Extend(g)
		}
	}
	if bounds == nil {
		return nil
	}
	return []float64{bounds.Min(0), bounds.Min(1), bounds.Max(0), bounds.Max(1)}
}
