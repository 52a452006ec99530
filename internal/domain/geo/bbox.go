package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kailas-cloud/geocatalog/internal/domain"
)

// Predicate selects how a bounding box relates to record geometries.
type Predicate string

// Supported spatial predicates.
const (
	PredicateOverlaps Predicate = "overlaps"
	PredicateContains Predicate = "contains"
	PredicateDisjoint Predicate = "disjoint"
)

// Relation maps the predicate to the engine geo_shape relation.
// Unknown predicates are an error, never a silent default.
func (p Predicate) Relation() (string, error) {
	switch p {
	case PredicateContains:
		return "within", nil
	case PredicateOverlaps:
		return "intersects", nil
	case PredicateDisjoint:
		return "disjoint", nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownPredicate, string(p))
}

// BoundingBox is an axis-aligned WGS84 envelope. After construction
// West <= East and South <= North always hold.
type BoundingBox struct {
	West  float64
	South float64
	East  float64
	North float64
}

// ParseBoundingBox parses a "west,south,east,north" string into a
// normalized BoundingBox. Coordinates are swapped so that min <= max per
// axis, then checked against [-180,180] x [-90,90].
func ParseBoundingBox(s string) (BoundingBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return BoundingBox{}, fmt.Errorf("%w: bbox needs 4 coordinates, got %d", domain.ErrInvalidRequest, len(parts))
	}
	coords := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return BoundingBox{}, fmt.Errorf("%w: non-numeric bbox coordinate %q", domain.ErrInvalidRequest, p)
		}
		coords[i] = v
	}
	return NewBoundingBox(coords[0], coords[1], coords[2], coords[3])
}

// NewBoundingBox normalizes and validates the four envelope coordinates.
func NewBoundingBox(west, south, east, north float64) (BoundingBox, error) {
	xmin, xmax := math.Min(west, east), math.Max(west, east)
	ymin, ymax := math.Min(south, north), math.Max(south, north)
	if xmin < -180 || xmax > 180 || ymin < -90 || ymax > 90 {
		return BoundingBox{}, fmt.Errorf("%w: bbox out of bounds", domain.ErrInvalidRequest)
	}
	return BoundingBox{West: xmin, South: ymin, East: xmax, North: ymax}, nil
}

// Envelope returns the corner pairs the engine expects for an envelope
// shape: upper-left then lower-right, [[xmin,ymax],[xmax,ymin]].
func (b BoundingBox) Envelope() [][]float64 {
	return [][]float64{{b.West, b.North}, {b.East, b.South}}
}
