package geocatalog

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Source is one metadata provider.
type Source struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Metadata is the multi-record lookup result.
type Metadata struct {
	Total   int              `json:"total"`
	BBox    []float64        `json:"bbox"`
	Records []map[string]any `json:"records"`
}

// Sources lists all metadata sources in the catalog.
func (c *Client) Sources(ctx context.Context) ([]Source, error) {
	var sources []Source
	if err := c.get(ctx, "/sources", nil, &sources); err != nil {
		return nil, err
	}
	return sources, nil
}

// RawRecord fetches the stored metadata document for one record.
func (c *Client) RawRecord(ctx context.Context, id string) (map[string]any, error) {
	if id == "" {
		return nil, fmt.Errorf("record id is required")
	}
	q := url.Values{}
	q.Set("id", id)

	var record map[string]any
	if err := c.get(ctx, "/raw", q, &record); err != nil {
		return nil, err
	}
	return record, nil
}

// Metadata fetches selected attributes for a set of records together with
// the union bounding box of their geometries. An empty attributes list
// requests the server defaults.
func (c *Client) Metadata(ctx context.Context, ids, attributes []string) (Metadata, error) {
	if len(ids) == 0 {
		return Metadata{}, fmt.Errorf("at least one record id is required")
	}
	q := url.Values{}
	q.Set("ids", joinCommaList(ids))
	if len(attributes) > 0 {
		q.Set("attributes", joinCommaList(attributes))
	}

	var meta Metadata
	if err := c.get(ctx, "/metadata", q, &meta); err != nil {
		return Metadata{}, err
	}
	return meta, nil
}

func joinCommaList(values []string) string {
	return strings.Join(values, ",")
}
