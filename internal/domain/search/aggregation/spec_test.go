package aggregation

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/geocatalog/internal/domain"
)

func TestSpec_AddDuplicate(t *testing.T) {
	var s Spec
	if err := s.Add("keyword", Terms, "keyword", 50); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := s.Add("keyword", SignificantTerms, "keyword", 10)
	if !errors.Is(err, domain.ErrDuplicateAggregation) {
		t.Errorf("err = %v, want ErrDuplicateAggregation", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d after rejected duplicate", s.Len())
	}
}

func TestSpec_TreeSingle(t *testing.T) {
	var s Spec
	if err := s.Add("keyword", Terms, "keyword", 50); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tree := s.Tree()
	node, ok := tree["keyword"].(map[string]any)
	if !ok {
		t.Fatalf("tree = %v", tree)
	}
	body, _ := node["terms"].(map[string]any)
	if body["field"] != "keyword" || body["size"] != 50 {
		t.Errorf("body = %v", body)
	}
	if _, nested := node["aggs"]; nested {
		t.Error("single aggregation must not nest")
	}
}

// The last-added registration becomes the outermost tree node. Clients
// stitch nested buckets back together by position, so this inverted order
// must hold exactly.
func TestSpec_TreeNestingOrder(t *testing.T) {
	var s Spec
	for _, name := range []string{"inner", "middle", "outer"} {
		if err := s.Add(name, Terms, name+".field", 10); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	tree := s.Tree()
	if len(tree) != 1 {
		t.Fatalf("tree has %d top-level keys", len(tree))
	}

	outer, ok := tree["outer"].(map[string]any)
	if !ok {
		t.Fatalf("outermost key missing: %v", tree)
	}
	middleWrap, ok := outer["aggs"].(map[string]any)
	if !ok {
		t.Fatalf("outer has no nested aggs: %v", outer)
	}
	middle, ok := middleWrap["middle"].(map[string]any)
	if !ok {
		t.Fatalf("middle missing: %v", middleWrap)
	}
	innerWrap, ok := middle["aggs"].(map[string]any)
	if !ok {
		t.Fatalf("middle has no nested aggs: %v", middle)
	}
	if _, ok := innerWrap["inner"]; !ok {
		t.Fatalf("inner missing: %v", innerWrap)
	}
}

func TestSpec_OuterName(t *testing.T) {
	var s Spec
	if s.OuterName() != "" {
		t.Errorf("OuterName() = %q for empty spec", s.OuterName())
	}
	_ = s.Add("first", Terms, "a", 1)
	_ = s.Add("second", Terms, "b", 1)
	if s.OuterName() != "second" {
		t.Errorf("OuterName() = %q, want second", s.OuterName())
	}
}

func TestSpec_CardinalityOmitsSize(t *testing.T) {
	var s Spec
	if err := s.Add("group_number", Cardinality, "_group", 25); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	node := s.Tree()["group_number"].(map[string]any)
	body := node["cardinality"].(map[string]any)
	if body["field"] != "_group" {
		t.Errorf("body = %v", body)
	}
	if _, hasSize := body["size"]; hasSize {
		t.Error("cardinality aggregation must not carry a size")
	}
}

func TestSpec_ZeroSizeOmitted(t *testing.T) {
	var s Spec
	if err := s.Add("keyword", Terms, "keyword", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := s.Tree()["keyword"].(map[string]any)["terms"].(map[string]any)
	if _, hasSize := body["size"]; hasSize {
		t.Error("zero size must be omitted")
	}
}
