// Package chi exposes the catalog search API over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/geocatalog/internal/domain"
	"github.com/kailas-cloud/geocatalog/internal/domain/search/request"
	cataloguc "github.com/kailas-cloud/geocatalog/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/geocatalog/internal/usecase/health"
	searchuc "github.com/kailas-cloud/geocatalog/internal/usecase/search"
)

// errorCode is the machine-readable error identifier in error responses.
type errorCode string

const (
	codeBadRequest        errorCode = "bad_request"
	codeValidationFailed  errorCode = "validation_failed"
	codeRecordNotFound    errorCode = "record_not_found"
	codeEngineQueryError  errorCode = "engine_query_error"
	codeEngineUnavailable errorCode = "engine_unavailable"
	codeEmbeddingError    errorCode = "embedding_provider_error"
	codeInternalError     errorCode = "internal_error"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server routes catalog API requests to the use case services.
type Server struct {
	search        *searchuc.Service
	catalog       *cataloguc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	catalog *cataloguc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:  search,
		catalog: catalog,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrUnknownPredicate, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrRecordNotFound, http.StatusNotFound, codeRecordNotFound),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingError),
		sentinelHandler(domain.ErrEngineQuery, http.StatusBadGateway, codeEngineQueryError),
		sentinelHandler(domain.ErrEngineUnavailable, http.StatusServiceUnavailable, codeEngineUnavailable),
	}
	return s
}

// Routes mounts all API endpoints on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/search", s.Search)
	r.Get("/sources", s.Sources)
	r.Get("/raw", s.Raw)
	r.Get("/metadata", s.Metadata)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Search handles GET /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	in, err := searchInputFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	params, err := request.New(in)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	results, err := s.search.Search(r.Context(), &params)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, results)
}

// Sources handles GET /sources.
func (s *Server) Sources(w http.ResponseWriter, r *http.Request) {
	sources, err := s.catalog.Sources(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sources)
}

// Raw handles GET /raw.
func (s *Server) Raw(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "id is required")
		return
	}

	record, err := s.catalog.Raw(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// Metadata handles GET /metadata.
func (s *Server) Metadata(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	rawIDs := q.Get("ids")
	if rawIDs == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "ids is required")
		return
	}
	ids := splitCommaList(rawIDs)

	// Attributes accepted both repeated and comma-separated.
	var attributes []string
	for _, raw := range q["attributes"] {
		attributes = append(attributes, splitCommaList(raw)...)
	}

	result, err := s.catalog.Metadata(r.Context(), ids, attributes)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidRequest,
		domain.ErrUnknownPredicate,
		domain.ErrRecordNotFound,
		domain.ErrEngineQuery,
		domain.ErrEngineUnavailable,
		domain.ErrEmbeddingProviderError,
	}
	for _, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			// Validation errors carry safe detail beyond the sentinel text.
			if errors.Is(err, domain.ErrInvalidRequest) || errors.Is(err, domain.ErrUnknownPredicate) {
				return err.Error()
			}
			return sentinel.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
