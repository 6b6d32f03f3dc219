package resultcache

import (
	"time"

	"github.com/kailas-cloud/docdex/internal/domain/search/result"
	"github.com/kailas-cloud/docdex/internal/domain/search/strategy"
)

// hitDTO is the JSON-serializable representation of one search hit.
type hitDTO struct {
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

// envelopeDTO is the cached record for one finished search.
type envelopeDTO struct {
	QueryHash           string         `json:"query_hash"`
	Hits                []hitDTO       `json:"hits"`
	TotalCount          int            `json:"total_count"`
	QueryTimeMs         int64          `json:"query_time_ms"`
	StrategyUsed        string         `json:"strategy_used"`
	WorkspacesSearched  []string       `json:"workspaces_searched"`
	EnrichmentTriggered bool           `json:"enrichment_triggered"`
	Metadata            map[string]any `json:"metadata,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	ExpiresAt           time.Time      `json:"expires_at"`
}

func toEnvelopeDTO(hash string, res result.Results, now time.Time, ttl time.Duration) envelopeDTO {
	hits := make([]hitDTO, 0, len(res.Hits()))
	for _, h := range res.Hits() {
		hits = append(hits, hitDTO{
			ContentID:      h.ContentID(),
			Title:          h.Title(),
			ContentSnippet: h.ContentSnippet(),
			SourceURL:      h.SourceURL(),
			RelevanceScore: h.RelevanceScore(),
			Metadata:       h.Metadata(),
			Technology:     h.Technology(),
			QualityScore:   h.QualityScore(),
			WorkspaceSlug:  h.WorkspaceSlug(),
			ChunkIndex:     h.ChunkIndex(),
		})
	}

	return envelopeDTO{
		QueryHash:           hash,
		Hits:                hits,
		TotalCount:          res.TotalCount(),
		QueryTimeMs:         res.QueryTimeMs(),
		StrategyUsed:        string(res.StrategyUsed()),
		WorkspacesSearched:  res.WorkspacesSearched(),
		EnrichmentTriggered: res.EnrichmentTriggered(),
		Metadata:            res.Metadata(),
		CreatedAt:           now,
		ExpiresAt:           now.Add(ttl),
	}
}

// fromEnvelopeDTO hydrates the domain envelope with the cache-hit flag set.
func fromEnvelopeDTO(dto envelopeDTO) result.Results {
	hits := make([]result.Result, 0, len(dto.Hits))
	for _, h := range dto.Hits {
		r := result.New(h.ContentID, h.Title, h.ContentSnippet, h.SourceURL, h.RelevanceScore, h.Metadata)
		if h.Technology != "" {
			r = r.WithTechnology(h.Technology)
		}
		if h.QualityScore != nil {
			r = r.WithQuality(*h.QualityScore)
		}
		if h.WorkspaceSlug != "" {
			r = r.WithWorkspace(h.WorkspaceSlug)
		}
		if h.ChunkIndex != nil {
			r = r.WithChunkIndex(*h.ChunkIndex)
		}
		hits = append(hits, r)
	}

	return result.Reconstruct(
		hits,
		dto.TotalCount,
		dto.QueryTimeMs,
		strategy.Strategy(dto.StrategyUsed),
		true,
		dto.WorkspacesSearched,
		dto.EnrichmentTriggered,
		dto.Metadata,
	)
}
