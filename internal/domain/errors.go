package domain

import "errors"

var (
	// ErrRecordNotFound signals a missing catalog record.
	ErrRecordNotFound = errors.New("record not found")
	// ErrInvalidRequest signals malformed search parameters.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnknownPredicate signals an unrecognized spatial predicate.
	ErrUnknownPredicate = errors.New("unknown spatial predicate")
	// ErrDuplicateAggregation signals a facet name registered twice in one spec.
	ErrDuplicateAggregation = errors.New("duplicate aggregation name")
	// ErrEngineUnavailable signals that the search engine cannot be reached.
	ErrEngineUnavailable = errors.New("search engine unavailable")
	// ErrEngineQuery signals that the engine rejected a query.
	ErrEngineQuery = errors.New("engine query error")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
