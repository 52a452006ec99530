package response

import (
	"math"
	"strconv"

	"github.com/kailas-cloud/geocatalog/internal/domain/geo"
)

// Field projections expected on collapsed hits.
const (
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldSourceID    = "source.id"
	fieldSourceTitle = "source.title"
)

// Normalize reshapes a raw engine response into the external contract.
// It is a pure transform: the same input always yields the same output,
// and partially-populated responses degrade to zero values instead of
// failing.
func Normalize(raw *Raw, page, recordsPerPage int, useSignificance bool) Results {
	return Results{
		Page:             page,
		TotalPages:       totalPages(raw, recordsPerPage),
		NumberOfResults:  raw.Hits.Total.Value,
		Data:             extractGroups(raw),
		SignificantTerms: extractFacets(raw, useSignificance),
		GeoJSON:          extractGeometries(raw),
	}
}

// totalPages derives the page count from the distinct-group cardinality
// aggregation. Hit totals count members, not groups, so they must not be
// used here. Zero groups means zero pages.
func totalPages(raw *Raw, recordsPerPage int) int {
	if recordsPerPage <= 0 {
		return 0
	}
	groups := raw.Aggregations[GroupCountAggregation].Value
	return int(math.Ceil(groups / float64(recordsPerPage)))
}

func extractGroups(raw *Raw) []Group {
	groups := make([]Group, 0, len(raw.Hits.Hits))
	for _, hit := range raw.Hits.Hits {
		inner := hit.InnerHits[InnerHitsName]
		members := make([]string, 0, len(inner.Hits.Hits))
		for _, m := range inner.Hits.Hits {
			members = append(members, m.Source.ID)
		}
		groups = append(groups, Group{
			GroupID:     hit.Fields.First(GroupField),
			MemberCount: inner.Hits.Total.Value,
			Members:     members,
			Title:       hit.Fields.First(fieldTitle),
			Description: hit.Fields.First(fieldDescription),
			OrigOrgID:   hit.Fields.First(fieldSourceID),
			OrigOrgDesc: hit.Fields.First(fieldSourceTitle),
			Score:       hit.Score,
		})
	}
	return groups
}

// extractFacets maps every aggregation except the group counter to its
// term list. Empty bucket lists yield empty lists, never omitted keys.
func extractFacets(raw *Raw, useSignificance bool) map[string][]Term {
	facets := make(map[string][]Term, len(raw.Aggregations))
	for name, agg := range raw.Aggregations {
		if name == GroupCountAggregation {
			continue
		}
		terms := make([]Term, 0, len(agg.Buckets))
		for _, bucket := range agg.Buckets {
			terms = append(terms, bucketToTerm(bucket, useSignificance))
		}
		facets[name] = terms
	}
	return facets
}

// bucketToTerm renders one of the four facet presentation variants,
// selected by significance ranking and by whether the bucket carries a
// nested source-title resolution.
func bucketToTerm(bucket Bucket, useSignificance bool) Term {
	term := Term{Term: keyString(bucket.Key), Freq: bucket.DocCount}

	if title, ok := resolvedTitle(bucket); ok {
		term.TermID = keyString(bucket.Key)
		term.Term = title
	}
	if useSignificance {
		bg := bucket.BgCount
		score := round4(bucket.Score)
		term.BgFreq = &bg
		term.Score = &score
	}
	return term
}

// resolvedTitle extracts the display title from the nested source-title
// aggregation, when present.
func resolvedTitle(bucket Bucket) (string, bool) {
	if bucket.SourceTitle == nil || len(bucket.SourceTitle.Buckets) == 0 {
		return "", false
	}
	return keyString(bucket.SourceTitle.Buckets[0].Key), true
}

func extractGeometries(raw *Raw) geo.FeatureCollection {
	features := make([]geo.Feature, 0)
	for _, hit := range raw.Hits.Hits {
		groupID := hit.Fields.First(GroupField)
		for _, member := range hit.InnerHits[InnerHitsName].Hits.Hits {
			features = append(features, geo.NewFeature(member.Source.ID, member.Source.Geom, groupID))
		}
	}
	return geo.NewFeatureCollection(features)
}

func keyString(key any) string {
	switch v := key.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	}
	return ""
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
