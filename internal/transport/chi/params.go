package chi

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/geocatalog/internal/domain/geo"
	"github.com/kailas-cloud/geocatalog/internal/domain/search/request"
)

// filterParams maps query parameters to the record fields they constrain.
// Values are comma-separated lists.
var filterParams = []struct {
	param string
	field string
}{
	{"sources", "source.id"},
	{"keyword", "keyword"},
	{"format", "format"},
	{"protocol", "online.protocol"},
	{"organisationName", "origOrgDesc"},
	{"ontology", "_ontology.ontology"},
	{"concept", "_ontology.concept"},
	{"individual", "_ontology.individual"},
	{"extractedKeyword", "_extracted_keyword"},
	{"extractedFiletype", "_extracted_filetype"},
}

// searchInputFromQuery parses the /search query string into the raw
// request input. Only syntax is checked here; range validation and
// defaulting happen in request.New.
func searchInputFromQuery(q url.Values) (request.Input, error) {
	in := request.Input{
		Query:  q.Get("query"),
		Method: request.Method(q.Get("queryMethod")),
	}

	if raw := q.Get("minScore"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return request.Input{}, fmt.Errorf("minScore must be a number, got %q", raw)
		}
		in.MinScore = &v
	}

	var err error
	if in.Page, err = intParam(q, "page"); err != nil {
		return request.Input{}, err
	}
	if in.RecordsPerPage, err = intParam(q, "recordsPerPage"); err != nil {
		return request.Input{}, err
	}
	if in.TermsSize, err = intParam(q, "termsSize"); err != nil {
		return request.Input{}, err
	}

	if raw := q.Get("bbox"); raw != "" {
		box, err := geo.ParseBoundingBox(raw)
		if err != nil {
			return request.Input{}, err
		}
		in.BoundingBox = &box
	}
	in.Predicate = geo.Predicate(q.Get("spatialPredicate"))

	if in.TimeStart, err = timeParam(q, "timeStart"); err != nil {
		return request.Input{}, err
	}
	if in.TimeEnd, err = timeParam(q, "timeEnd"); err != nil {
		return request.Input{}, err
	}

	if raw := q.Get("termsSignificance"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return request.Input{}, fmt.Errorf("termsSignificance must be a boolean, got %q", raw)
		}
		in.Significance = &v
	}

	for _, fp := range filterParams {
		if raw := q.Get(fp.param); raw != "" {
			in.Filters = append(in.Filters, request.Filter{
				Field:  fp.field,
				Values: splitCommaList(raw),
			})
		}
	}

	return in, nil
}

func intParam(q url.Values, name string) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	return v, nil
}

// timeParam accepts ISO-8601 datetimes and plain dates.
func timeParam(q url.Values, name string) (*time.Time, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%s must be an ISO-8601 date or datetime, got %q", name, raw)
}

func splitCommaList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
