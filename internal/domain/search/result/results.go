package result

import "github.com/kailas-cloud/docdex/internal/domain/search/strategy"

// Results is the response envelope for one search execution. Ordering of the
// hits is meaningful (ranking order). Constructed exactly once per search;
// cached copies get the cache-hit flag flipped on retrieval.
type Results struct {
	hits                []Result
	totalCount          int
	queryTimeMs         int64
	strategyUsed        strategy.Strategy
	cacheHit            bool
	workspacesSearched  []string
	enrichmentTriggered bool
	metadata            map[string]any
}

// NewResults assembles the response envelope.
func NewResults(
	hits []Result,
	totalCount int,
	queryTimeMs int64,
	strategyUsed strategy.Strategy,
	workspacesSearched []string,
	enrichmentTriggered bool,
	metadata map[string]any,
) Results {
	return Results{
		hits:                hits,
		totalCount:          totalCount,
		queryTimeMs:         queryTimeMs,
		strategyUsed:        strategyUsed,
		workspacesSearched:  workspacesSearched,
		enrichmentTriggered: enrichmentTriggered,
		metadata:            metadata,
	}
}

// Reconstruct rebuilds an envelope from storage, including the cache-hit flag.
func Reconstruct(
	hits []Result,
	totalCount int,
	queryTimeMs int64,
	strategyUsed strategy.Strategy,
	cacheHit bool,
	workspacesSearched []string,
	enrichmentTriggered bool,
	metadata map[string]any,
) Results {
	r := NewResults(hits, totalCount, queryTimeMs, strategyUsed, workspacesSearched, enrichmentTriggered, metadata)
	r.cacheHit = cacheHit
	return r
}

// WithCacheHit returns a copy with the cache-hit flag set; nothing else is
// re-derived.
func (r Results) WithCacheHit() Results {
	r.cacheHit = true
	return r
}

// Hits returns the ranked hits.
func (r *Results) Hits() []Result { return r.hits }

// TotalCount returns the total number of hits.
func (r *Results) TotalCount() int { return r.totalCount }

// QueryTimeMs returns the end-to-end search duration in milliseconds.
func (r *Results) QueryTimeMs() int64 { return r.queryTimeMs }

// StrategyUsed returns the strategy the search executed with.
func (r *Results) StrategyUsed() strategy.Strategy { return r.strategyUsed }

// CacheHit reports whether the envelope was served from cache.
func (r *Results) CacheHit() bool { return r.cacheHit }

// WorkspacesSearched returns the queried workspace slugs in selection order.
func (r *Results) WorkspacesSearched() []string { return r.workspacesSearched }

// EnrichmentTriggered reports whether background enrichment was dispatched.
func (r *Results) EnrichmentTriggered() bool { return r.enrichmentTriggered }

// Metadata returns the optional envelope metadata.
func (r *Results) Metadata() map[string]any { return r.metadata }
