// Package catalog provides the record lookup operations next to search:
// the source list, raw metadata for one record, and metadata for a set of
// records with their union bounding box.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/geocatalog/internal/domain"
	"github.com/kailas-cloud/geocatalog/internal/domain/geo"
	"github.com/kailas-cloud/geocatalog/internal/domain/search/aggregation"
	"github.com/kailas-cloud/geocatalog/internal/domain/search/query"
	"github.com/kailas-cloud/geocatalog/internal/domain/search/response"
)

// sourcesSize bounds the distinct-source listing.
const sourcesSize = 10000

// DefaultMetadataAttributes are returned when the caller does not restrict
// the attribute projection.
var DefaultMetadataAttributes = []string{"id", "title", "description", "source", "online", "keyword"}

// Source is one metadata provider: internal id plus display title.
type Source struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Metadata is the multi-record lookup result. BBox is the union envelope
// of the returned geometries, nil when none decode.
type Metadata struct {
	Total   int              `json:"total"`
	BBox    []float64        `json:"bbox"`
	Records []map[string]any `json:"records"`
}

// Service handles catalog lookups.
type Service struct {
	exec  Executor
	index string
}

// New creates a catalog service bound to one index.
func New(exec Executor, index string) *Service {
	return &Service{exec: exec, index: index}
}

// Sources lists all distinct metadata sources with their display titles.
// Aggregation-only query: no hits are fetched.
func (s *Service) Sources(ctx context.Context) ([]Source, error) {
	var spec aggregation.Spec
	if err := spec.Add(response.SourceTitleAggregation, aggregation.Terms, "source.title", 1); err != nil {
		return nil, fmt.Errorf("register source title aggregation: %w", err)
	}
	if err := spec.Add("source", aggregation.Terms, "source.id", sourcesSize); err != nil {
		return nil, fmt.Errorf("register source aggregation: %w", err)
	}

	raw, err := query.New(s.exec, s.index).
		Aggregations(&spec).
		Source(false).
		Size(0).
		Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}

	buckets := raw.Aggregations["source"].Buckets
	sources := make([]Source, 0, len(buckets))
	for _, b := range buckets {
		src := Source{ID: keyString(b.Key)}
		if b.SourceTitle != nil && len(b.SourceTitle.Buckets) > 0 {
			src.Title = keyString(b.SourceTitle.Buckets[0].Key)
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// Raw fetches the stored metadata document for one record, excluding the
// internal underscore-prefixed fields.
func (s *Service) Raw(ctx context.Context, id string) (map[string]any, error) {
	raw, err := query.New(s.exec, s.index).
		Raw(map[string]any{
			"bool": map[string]any{
				"must": []map[string]any{
					{"match": map[string]any{"id": id}},
				},
			},
		}).
		Source(map[string]any{"excludes": []string{"_*"}}).
		Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch record %s: %w", id, err)
	}

	if len(raw.Hits.Hits) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrRecordNotFound, id)
	}
	return raw.Hits.Hits[0].Source, nil
}

// Metadata fetches the requested attributes for a set of records and
// computes the union envelope of their geometries.
func (s *Service) Metadata(ctx context.Context, ids, attributes []string) (Metadata, error) {
	if len(attributes) == 0 {
		attributes = DefaultMetadataAttributes
	}

	should := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		should = append(should, map[string]any{"match": map[string]any{"id": id}})
	}

	raw, err := query.New(s.exec, s.index).
		Raw(map[string]any{"bool": map[string]any{"should": should}}).
		Source(map[string]any{"includes": attributes}).
		Fields("_geom").
		Execute(ctx)
	if err != nil {
		return Metadata{}, fmt.Errorf("fetch metadata: %w", err)
	}

	geoms := make([]json.RawMessage, 0, len(raw.Hits.Hits))
	records := make([]map[string]any, 0, len(raw.Hits.Hits))
	for _, hit := range raw.Hits.Hits {
		if g := hit.Fields.FirstRaw("_geom"); g != nil {
			if converted, err := geo.ConvertGeometry(g); err == nil && converted != nil {
				geoms = append(geoms, converted)
			}
		}
		records = append(records, hit.Source)
	}

	return Metadata{
		Total:   raw.Hits.Total.Value,
		BBox:    geo.UnionEnvelope(geoms),
		Records: records,
	}, nil
}

func keyString(key any) string {
	switch v := key.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}
