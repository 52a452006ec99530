package geocatalog

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned by the API.
const (
	CodeValidationFailed  = "validation_failed"
	CodeRecordNotFound    = "record_not_found"
	CodeEngineQueryError  = "engine_query_error"
	CodeEngineUnavailable = "engine_unavailable"
	CodeEmbeddingError    = "embedding_provider_error"
	CodeInternalError     = "internal_error"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("geocatalog: %s (%d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("geocatalog: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a record-not-found API error.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsValidation reports whether err is a request validation API error.
func IsValidation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == CodeValidationFailed
}
