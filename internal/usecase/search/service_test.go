package search

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/kailas-cloud/geocatalog/internal/domain"
	"github.com/kailas-cloud/geocatalog/internal/domain/geo"
	"github.com/kailas-cloud/geocatalog/internal/domain/search/request"
	"github.com/kailas-cloud/geocatalog/internal/domain/search/response"
)

type mockExecutor struct {
	raw       *response.Raw
	err       error
	lastIndex string
	lastBody  map[string]any
}

func (m *mockExecutor) Search(_ context.Context, index string, payload map[string]any) (*response.Raw, error) {
	m.lastIndex = index
	m.lastBody = payload
	if m.err != nil {
		return nil, m.err
	}
	if m.raw != nil {
		return m.raw, nil
	}
	return &response.Raw{}, nil
}

type mockEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec, TotalTokens: 2}, nil
}

func mustParams(t *testing.T, in request.Input) *request.Params {
	t.Helper()
	p, err := request.New(in)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return &p
}

func runSearch(t *testing.T, in request.Input) (*mockExecutor, response.Results) {
	t.Helper()
	exec := &mockExecutor{}
	svc := New(exec, &mockEmbedder{vec: []float32{0.1, 0.2}}, "catalog")
	results, err := svc.Search(context.Background(), mustParams(t, in))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	return exec, results
}

func TestSearch_PayloadShape(t *testing.T) {
	exec, _ := runSearch(t, request.Input{Page: 3, RecordsPerPage: 10})

	if exec.lastIndex != "catalog" {
		t.Errorf("index = %q", exec.lastIndex)
	}
	body := exec.lastBody
	if body["min_score"] != request.DefaultMinScore {
		t.Errorf("min_score = %v", body["min_score"])
	}
	if body["from"] != 20 || body["size"] != 10 {
		t.Errorf("paging = %v/%v", body["from"], body["size"])
	}
	if body["_source"] != false {
		t.Errorf("_source = %v", body["_source"])
	}
	if !reflect.DeepEqual(body["fields"], []string{"title", "description", "source.id", "source.title"}) {
		t.Errorf("fields = %v", body["fields"])
	}

	collapse := body["collapse"].(map[string]any)
	if collapse["field"] != response.GroupField {
		t.Errorf("collapse field = %v", collapse["field"])
	}
	inner := collapse["inner_hits"].(map[string]any)
	if inner["name"] != response.InnerHitsName || inner["size"] != groupInnerHitsSize {
		t.Errorf("inner_hits = %v", inner)
	}
	if !reflect.DeepEqual(inner["_source"], []string{"id", "_geom"}) {
		t.Errorf("inner_hits _source = %v", inner["_source"])
	}
}

func TestSearch_RegistersAllFacets(t *testing.T) {
	exec, _ := runSearch(t, request.Input{})

	aggs := exec.lastBody["aggs"].(map[string]any)
	wantKeys := []string{
		"keyword", "format", "protocol", "organisation", "source",
		"ontology", "concept", "individual",
		"extractedKeyword", "extractedFiletype",
		response.GroupCountAggregation,
	}
	if len(aggs) != len(wantKeys) {
		t.Fatalf("aggs has %d keys, want %d: %v", len(aggs), len(wantKeys), aggs)
	}
	for _, key := range wantKeys {
		if _, ok := aggs[key]; !ok {
			t.Errorf("aggregation %q missing", key)
		}
	}
}

func TestSearch_SourceFacetNestsTitleResolution(t *testing.T) {
	exec, _ := runSearch(t, request.Input{})

	source := exec.lastBody["aggs"].(map[string]any)["source"].(map[string]any)
	facet := source["significant_terms"].(map[string]any)
	if facet["field"] != "source.id" {
		t.Errorf("source field = %v", facet["field"])
	}

	nested := source["aggs"].(map[string]any)[response.SourceTitleAggregation].(map[string]any)
	title := nested["terms"].(map[string]any)
	if title["field"] != "source.title" || title["size"] != 1 {
		t.Errorf("title resolution = %v", title)
	}
}

func TestSearch_SignificanceTogglesFacetType(t *testing.T) {
	off := false
	exec, _ := runSearch(t, request.Input{Significance: &off})

	keyword := exec.lastBody["aggs"].(map[string]any)["keyword"].(map[string]any)
	terms, ok := keyword["terms"].(map[string]any)
	if !ok {
		t.Fatalf("keyword = %v, want plain terms", keyword)
	}
	if terms["field"] != "keyword" || terms["size"] != request.DefaultTermsSize {
		t.Errorf("terms = %v", terms)
	}
}

func TestSearch_GroupCounter(t *testing.T) {
	exec, _ := runSearch(t, request.Input{})

	counter := exec.lastBody["aggs"].(map[string]any)[response.GroupCountAggregation].(map[string]any)
	card := counter["cardinality"].(map[string]any)
	if card["field"] != response.GroupField {
		t.Errorf("cardinality = %v", card)
	}
}

func TestSearch_SemanticEmbedsQuery(t *testing.T) {
	exec := &mockExecutor{}
	embed := &mockEmbedder{vec: []float32{0.1, 0.2}}
	svc := New(exec, embed, "catalog")

	if _, err := svc.Search(context.Background(), mustParams(t, request.Input{Query: "water quality"})); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if embed.calls != 1 {
		t.Errorf("Embed called %d times", embed.calls)
	}
	if _, ok := exec.lastBody["query"].(map[string]any)["knn"]; !ok {
		t.Errorf("query = %v, want knn clause", exec.lastBody["query"])
	}
}

func TestSearch_ExactDoesNotEmbed(t *testing.T) {
	exec := &mockExecutor{}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := New(exec, embed, "catalog")

	params := mustParams(t, request.Input{Query: "flood risk", Method: request.MethodExact})
	if _, err := svc.Search(context.Background(), params); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if embed.calls != 0 {
		t.Errorf("Embed called %d times", embed.calls)
	}
	boolNode := exec.lastBody["query"].(map[string]any)["bool"].(map[string]any)
	if _, ok := boolNode["should"]; !ok {
		t.Errorf("query = %v, want phrase clauses", exec.lastBody["query"])
	}
}

func TestSearch_FilterOnlyWithoutQueryText(t *testing.T) {
	exec, _ := runSearch(t, request.Input{
		Filters: []request.Filter{{Field: "keyword", Values: []string{"hydrology"}}},
	})

	boolNode := exec.lastBody["query"].(map[string]any)["bool"].(map[string]any)
	if _, ok := boolNode["should"]; ok {
		t.Error("should clause present without query text")
	}
	filters := boolNode["filter"].([]map[string]any)
	if len(filters) != 1 || filters[0]["term"].(map[string]any)["keyword"] != "hydrology" {
		t.Errorf("filters = %v", filters)
	}
}

func TestSearch_SpatialAndTemporalConstraints(t *testing.T) {
	box, _ := geo.NewBoundingBox(-11.5, 35.3, 43.2, 81.4)
	start := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
	exec, _ := runSearch(t, request.Input{
		BoundingBox: &box,
		Predicate:   geo.PredicateContains,
		TimeStart:   &start,
	})

	filters := exec.lastBody["query"].(map[string]any)["bool"].(map[string]any)["filter"].([]map[string]any)
	if len(filters) != 2 {
		t.Fatalf("filters = %v", filters)
	}
	shape := filters[0]["geo_shape"].(map[string]any)["_geom"].(map[string]any)
	if shape["relation"] != "within" {
		t.Errorf("relation = %v", shape["relation"])
	}
	endRange := filters[1]["range"].(map[string]any)["timeExtentEnd"].(map[string]any)
	if endRange["gte"] != "2018-01-01T00:00:00Z" {
		t.Errorf("temporal filter = %v", endRange)
	}
}

func TestSearch_EnginePropagatesError(t *testing.T) {
	exec := &mockExecutor{err: domain.ErrEngineUnavailable}
	svc := New(exec, &mockEmbedder{}, "catalog")

	_, err := svc.Search(context.Background(), mustParams(t, request.Input{}))
	if !errors.Is(err, domain.ErrEngineUnavailable) {
		t.Errorf("err = %v, want ErrEngineUnavailable", err)
	}
}

func TestSearch_NormalizesResponse(t *testing.T) {
	exec := &mockExecutor{raw: &response.Raw{
		Aggregations: map[string]response.Aggregation{
			response.GroupCountAggregation: {Value: 21},
		},
	}}
	svc := New(exec, &mockEmbedder{}, "catalog")

	results, err := svc.Search(context.Background(), mustParams(t, request.Input{Page: 2, RecordsPerPage: 10}))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if results.Page != 2 || results.TotalPages != 3 {
		t.Errorf("page/totalPages = %d/%d", results.Page, results.TotalPages)
	}
}
