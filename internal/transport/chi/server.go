// Package chi implements the HTTP API on top of the chi router.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docdex/internal/domain"
	"github.com/kailas-cloud/docdex/internal/domain/search/query"
	"github.com/kailas-cloud/docdex/internal/domain/search/result"
	"github.com/kailas-cloud/docdex/internal/domain/search/strategy"
	"github.com/kailas-cloud/docdex/internal/domain/search/workspace"
	healthuc "github.com/kailas-cloud/docdex/internal/usecase/health"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// searcher runs the search workflow.
type searcher interface {
	Search(ctx context.Context, q query.Query) (result.Results, error)
}

// cacheAdmin invalidates cached search results.
type cacheAdmin interface {
	Invalidate(ctx context.Context, pattern string) (int, error)
}

// catalogAdmin manages the workspace catalog.
type catalogAdmin interface {
	List(ctx context.Context) ([]workspace.Info, error)
	Put(ctx context.Context, w workspace.Info, status string) error
	Delete(ctx context.Context, slug string) error
}

// healthChecker aggregates component health.
type healthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server exposes the search, cache and catalog services over HTTP.
type Server struct {
	search        searcher
	cache         cacheAdmin
	catalog       catalogAdmin
	health        healthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search searcher,
	cache cacheAdmin,
	catalog catalogAdmin,
	health healthChecker,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:  search,
		cache:   cache,
		catalog: catalog,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrSearchTimeout, http.StatusGatewayTimeout, codeSearchTimeout),
		sentinelHandler(domain.ErrVectorSearch, http.StatusBadGateway, codeVectorBackendError),
		sentinelHandler(domain.ErrWorkspaceSelection, http.StatusServiceUnavailable, codeCatalogUnavailable),
		sentinelHandler(domain.ErrSearchCache, http.StatusServiceUnavailable, codeCacheUnavailable),
	}
	return s
}

// Routes mounts all API routes on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.SearchDocuments)
		r.Delete("/cache", s.InvalidateCache)
		r.Get("/workspaces", s.ListWorkspaces)
		r.Put("/workspaces/{slug}", s.UpsertWorkspace)
		r.Delete("/workspaces/{slug}", s.DeleteWorkspace)
	})
}

// SearchDocuments handles POST /api/v1/search.
func (s *Server) SearchDocuments(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	q, err := query.New(
		req.Query,
		strategy.Strategy(req.Strategy),
		req.Filters,
		req.Limit,
		req.Offset,
		req.TechnologyHint,
		req.WorkspaceSlugs,
		req.UseExternalSearch,
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	res, err := s.search.Search(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resultsToResponse(res))
}

// InvalidateCache handles DELETE /api/v1/cache.
func (s *Server) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	pattern := r.URL.Query().Get("pattern")

	deleted, err := s.cache.Invalidate(r.Context(), pattern)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, invalidateResponse{Deleted: deleted})
}

// ListWorkspaces handles GET /api/v1/workspaces.
func (s *Server) ListWorkspaces(w http.ResponseWriter, r *http.Request) {
	infos, err := s.catalog.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]workspaceResponse, len(infos))
	for i, info := range infos {
		items[i] = workspaceToResponse(info)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"workspaces": items,
		"total":      len(items),
	})
}

// UpsertWorkspace handles PUT /api/v1/workspaces/{slug}.
func (s *Server) UpsertWorkspace(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var req workspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	info := workspace.Info{
		Slug:          slug,
		Technology:    req.Technology,
		DocumentCount: req.DocumentCount,
	}
	if req.LastUpdated != "" {
		ts, err := time.Parse(time.RFC3339, req.LastUpdated)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed,
				"last_updated must be RFC3339: "+err.Error())
			return
		}
		info.LastUpdated = ts
	}

	if err := s.catalog.Put(r.Context(), info, req.Status); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, workspaceToResponse(info))
}

// DeleteWorkspace handles DELETE /api/v1/workspaces/{slug}.
func (s *Server) DeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	if err := s.catalog.Delete(r.Context(), slug); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
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
		domain.ErrSearchTimeout,
		domain.ErrVectorSearch,
		domain.ErrMetadataSearch,
		domain.ErrResultRanking,
		domain.ErrSearchCache,
		domain.ErrWorkspaceSelection,
		domain.ErrLLMEvaluation,
		domain.ErrEnrichmentTrigger,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
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
