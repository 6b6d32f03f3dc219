package chi

import (
	"time"

	"github.com/kailas-cloud/docdex/internal/domain/search/result"
	"github.com/kailas-cloud/docdex/internal/domain/search/workspace"
)

// errorCode is the machine-readable error identifier in error responses.
type errorCode string

const (
	codeBadRequest         errorCode = "bad_request"
	codeValidationFailed   errorCode = "validation_failed"
	codeSearchTimeout      errorCode = "search_timeout"
	codeVectorBackendError errorCode = "vector_backend_error"
	codeCatalogUnavailable errorCode = "catalog_unavailable"
	codeCacheUnavailable   errorCode = "cache_unavailable"
	codeInternalError      errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

type searchRequest struct {
	Query             string         `json:"query"`
	Strategy          string         `json:"strategy,omitempty"`
	Filters           map[string]any `json:"filters,omitempty"`
	Limit             int            `json:"limit,omitempty"`
	Offset            int            `json:"offset,omitempty"`
	TechnologyHint    string         `json:"technology_hint,omitempty"`
	WorkspaceSlugs    []string       `json:"workspace_slugs,omitempty"`
	UseExternalSearch *bool          `json:"use_external_search,omitempty"`
}

type searchHit struct {
	ContentID      string         `json:"content_id"`
	Title          string         `json:"title"`
	ContentSnippet string         `json:"content_snippet"`
	SourceURL      string         `json:"source_url"`
	RelevanceScore float64        `json:"relevance_score"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	Technology     string         `json:"technology,omitempty"`
	QualityScore   *float64       `json:"quality_score,omitempty"`
	WorkspaceSlug  string         `json:"workspace_slug,omitempty"`
	ChunkIndex     *int           `json:"chunk_index,omitempty"`
}

type searchResponse struct {
	Results             []searchHit    `json:"results"`
	TotalCount          int            `json:"total_count"`
	QueryTimeMs         int64          `json:"query_time_ms"`
	StrategyUsed        string         `json:"strategy_used"`
	CacheHit            bool           `json:"cache_hit"`
	WorkspacesSearched  []string       `json:"workspaces_searched"`
	EnrichmentTriggered bool           `json:"enrichment_triggered"`
	Metadata            map[string]any `json:"metadata,omitempty"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type invalidateResponse struct {
	Deleted int `json:"deleted"`
}

type workspaceRequest struct {
	Technology    string `json:"technology"`
	DocumentCount *int   `json:"document_count,omitempty"`
	LastUpdated   string `json:"last_updated,omitempty"`
	Status        string `json:"status,omitempty"`
}

type workspaceResponse struct {
	Slug          string `json:"slug"`
	Technology    string `json:"technology"`
	DocumentCount *int   `json:"document_count,omitempty"`
	LastUpdated   string `json:"last_updated,omitempty"`
}

func resultToHit(r *result.Result) searchHit {
	return searchHit{
		ContentID:      r.ContentID(),
		Title:          r.Title(),
		ContentSnippet: r.ContentSnippet(),
		SourceURL:      r.SourceURL(),
		RelevanceScore: r.RelevanceScore(),
		Metadata:       r.Metadata(),
		Technology:     r.Technology(),
		QualityScore:   r.QualityScore(),
		WorkspaceSlug:  r.WorkspaceSlug(),
		ChunkIndex:     r.ChunkIndex(),
	}
}

func resultsToResponse(res result.Results) searchResponse {
	hits := res.Hits()
	items := make([]searchHit, len(hits))
	for i := range hits {
		items[i] = resultToHit(&hits[i])
	}
	slugs := res.WorkspacesSearched()
	if slugs == nil {
		slugs = []string{}
	}
	return searchResponse{
		Results:             items,
		TotalCount:          res.TotalCount(),
		QueryTimeMs:         res.QueryTimeMs(),
		StrategyUsed:        string(res.StrategyUsed()),
		CacheHit:            res.CacheHit(),
		WorkspacesSearched:  slugs,
		EnrichmentTriggered: res.EnrichmentTriggered(),
		Metadata:            res.Metadata(),
	}
}

func workspaceToResponse(w workspace.Info) workspaceResponse {
	resp := workspaceResponse{
		Slug:          w.Slug,
		Technology:    w.Technology,
		DocumentCount: w.DocumentCount,
	}
	if !w.LastUpdated.IsZero() {
		resp.LastUpdated = w.LastUpdated.UTC().Format(time.RFC3339)
	}
	return resp
}
