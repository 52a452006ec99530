package request

import (
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/geocatalog/internal/domain"
	"github.com/kailas-cloud/geocatalog/internal/domain/geo"
)

func TestNew_Defaults(t *testing.T) {
	p, err := New(Input{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Method() != MethodSemantic {
		t.Errorf("Method() = %q, want semantic (default)", p.Method())
	}
	if p.MinScore() != DefaultMinScore {
		t.Errorf("MinScore() = %f, want %f", p.MinScore(), DefaultMinScore)
	}
	if p.Page() != 1 {
		t.Errorf("Page() = %d, want 1", p.Page())
	}
	if p.RecordsPerPage() != DefaultRecordsPerPage {
		t.Errorf("RecordsPerPage() = %d, want %d", p.RecordsPerPage(), DefaultRecordsPerPage)
	}
	if p.Predicate() != geo.PredicateOverlaps {
		t.Errorf("Predicate() = %q, want overlaps (default)", p.Predicate())
	}
	if p.TermsSize() != DefaultTermsSize {
		t.Errorf("TermsSize() = %d, want %d", p.TermsSize(), DefaultTermsSize)
	}
	if !p.Significance() {
		t.Error("Significance() = false, want true (default)")
	}
}

func TestNew_ExplicitValues(t *testing.T) {
	minScore := 0.3
	significance := false
	start := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
	box, _ := geo.NewBoundingBox(-11.5, 35.3, 43.2, 81.4)

	p, err := New(Input{
		Query:          "sustainability",
		Method:         MethodExact,
		MinScore:       &minScore,
		Page:           3,
		RecordsPerPage: 25,
		BoundingBox:    &box,
		Predicate:      geo.PredicateContains,
		TimeStart:      &start,
		Filters:        []Filter{{Field: "keyword", Values: []string{"hydrology"}}},
		TermsSize:      15,
		Significance:   &significance,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Query() != "sustainability" || p.Method() != MethodExact {
		t.Errorf("query/method = %q/%q", p.Query(), p.Method())
	}
	if p.MinScore() != 0.3 || p.Page() != 3 || p.RecordsPerPage() != 25 {
		t.Errorf("scalars = %f/%d/%d", p.MinScore(), p.Page(), p.RecordsPerPage())
	}
	if p.BoundingBox() == nil || p.Predicate() != geo.PredicateContains {
		t.Errorf("bbox/predicate = %v/%q", p.BoundingBox(), p.Predicate())
	}
	if p.TimeStart() == nil || !p.TimeStart().Equal(start) || p.TimeEnd() != nil {
		t.Errorf("time bounds = %v/%v", p.TimeStart(), p.TimeEnd())
	}
	if len(p.Filters()) != 1 || p.Filters()[0].Field != "keyword" {
		t.Errorf("filters = %v", p.Filters())
	}
	if p.TermsSize() != 15 || p.Significance() {
		t.Errorf("facet params = %d/%v", p.TermsSize(), p.Significance())
	}
}

func TestNew_UnknownMethod(t *testing.T) {
	_, err := New(Input{Method: "fuzzy"})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestNew_PageValidation(t *testing.T) {
	if _, err := New(Input{Page: -1}); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("negative page: err = %v", err)
	}
	p, err := New(Input{Page: 0})
	if err != nil || p.Page() != 1 {
		t.Errorf("zero page: %v, page = %d", err, p.Page())
	}
}

func TestNew_RecordsPerPageValidation(t *testing.T) {
	tests := []struct {
		name    string
		perPage int
		want    int
		wantErr bool
	}{
		{"default", 0, DefaultRecordsPerPage, false},
		{"normal", 25, 25, false},
		{"at max", MaxRecordsPerPage, MaxRecordsPerPage, false},
		{"over max", MaxRecordsPerPage + 1, 0, true},
		{"negative", -5, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(Input{RecordsPerPage: tt.perPage})
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidRequest) {
					t.Errorf("err = %v, want ErrInvalidRequest", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.RecordsPerPage() != tt.want {
				t.Errorf("RecordsPerPage() = %d, want %d", p.RecordsPerPage(), tt.want)
			}
		})
	}
}

func TestNew_UnknownPredicateWithBBox(t *testing.T) {
	box, _ := geo.NewBoundingBox(0, 0, 10, 10)
	_, err := New(Input{BoundingBox: &box, Predicate: "touches"})
	if !errors.Is(err, domain.ErrUnknownPredicate) {
		t.Errorf("err = %v, want ErrUnknownPredicate", err)
	}
}

func TestNew_UnknownPredicateWithoutBBoxIgnored(t *testing.T) {
	// Without a bbox the predicate never reaches the engine.
	if _, err := New(Input{Predicate: "touches"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
