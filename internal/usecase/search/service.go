// Package search orchestrates the end-to-end search workflow: cache check,
// workspace selection, parallel fan-out, ranking, evaluation, enrichment,
// and result caching.
package search

import (
	"context"
	"errors"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docdex/internal/domain"
	"github.com/kailas-cloud/docdex/internal/domain/search/query"
	"github.com/kailas-cloud/docdex/internal/domain/search/result"
	"github.com/kailas-cloud/docdex/internal/logger"
	"github.com/kailas-cloud/docdex/internal/metrics"
	"github.com/kailas-cloud/docdex/internal/usecase/rank"
)

const defaultOverallTimeout = 30 * time.Second

// Service is the search orchestrator. Stateless across requests; the result
// cache and catalog are the only shared collaborators.
type Service struct {
	cache     Cache
	selector  Selector
	executor  Executor
	evaluator Evaluator
	enricher  Enricher
	timeout   time.Duration
}

// New creates the orchestrator. evaluator and enricher may be nil when the
// LLM or enrichment backends are not configured.
func New(
	cache Cache,
	selector Selector,
	executor Executor,
	evaluator Evaluator,
	enricher Enricher,
	timeout time.Duration,
) *Service {
	if timeout <= 0 {
		timeout = defaultOverallTimeout
	}
	return &Service{
		cache:     cache,
		selector:  selector,
		executor:  executor,
		evaluator: evaluator,
		enricher:  enricher,
		timeout:   timeout,
	}
}

// Search runs the full workflow for one query. Recoverable collaborator
// failures (cache, ranking, evaluation, enrichment) degrade the response;
// workspace selection failure, total fan-out failure, and the overall
// timeout are terminal.
func (s *Service) Search(ctx context.Context, q query.Query) (result.Results, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	normalized := q.Normalize()
	strat := normalized.Strategy()

	traceID := middleware.GetReqID(ctx)
	if traceID == "" {
		traceID = uuid.NewString()
	}
	log := logger.FromContext(ctx).With(
		zap.String("trace_id", traceID),
		zap.String("strategy", string(strat)),
	)
	ctx = logger.ContextWithLogger(ctx, log)

	// Cache check. A cache failure is identical to a miss.
	cached, hit, err := s.cache.Get(ctx, normalized)
	if err != nil {
		log.Warn("search cache read failed", zap.Error(err))
	}
	if hit {
		metrics.SearchCacheTotal.WithLabelValues("hit").Inc()
		metrics.SearchRequestsTotal.WithLabelValues(string(strat), "ok").Inc()
		return cached, nil
	}
	metrics.SearchCacheTotal.WithLabelValues("miss").Inc()

	res, err := s.executeSearch(ctx, normalized, traceID, start)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = domain.NewSearchTimeout("search exceeded overall budget", err, map[string]any{
				"trace_id":   traceID,
				"timeout_ms": s.timeout.Milliseconds(),
			})
		}
		metrics.SearchRequestsTotal.WithLabelValues(string(strat), "error").Inc()
		return result.Results{}, err
	}

	metrics.SearchRequestsTotal.WithLabelValues(string(strat), "ok").Inc()
	metrics.SearchDuration.WithLabelValues(string(strat)).Observe(time.Since(start).Seconds())

	return res, nil
}

// executeSearch covers the cache-miss path: fan-out, rank, evaluate, enrich,
// compile, cache.
func (s *Service) executeSearch(
	ctx context.Context, q query.Query, traceID string, start time.Time,
) (result.Results, error) {
	log := logger.FromContext(ctx)

	workspaces, err := s.selector.Select(ctx, q.Text(), q.TechnologyHint(), q.WorkspaceSlugs())
	if err != nil {
		return result.Results{}, err
	}

	includeExternal := q.UseExternalSearch() != nil && *q.UseExternalSearch()

	hits, err := s.executor.Execute(ctx, q.Text(), workspaces, includeExternal)
	if err != nil {
		return result.Results{}, err
	}

	ranked, err := rank.Rank(hits, q.Strategy(), q.Text(), q.TechnologyHint())
	if err != nil {
		// Recoverable: serve the unranked merge rather than failing.
		log.Warn("ranking failed, returning unranked results", zap.Error(err))
		ranked = hits
	}

	page := paginate(ranked, q.Offset(), q.Limit())

	evaluation, evaluated := s.evaluate(ctx, q, page)
	enrichmentTriggered := s.maybeEnrich(ctx, evaluation, evaluated)

	meta := map[string]any{"trace_id": traceID}
	if evaluated {
		meta["evaluation"] = evaluationMeta(evaluation)
	}

	slugs := make([]string, 0, len(workspaces))
	for _, w := range workspaces {
		slugs = append(slugs, w.Slug)
	}

	res := result.NewResults(
		page,
		len(ranked),
		time.Since(start).Milliseconds(),
		q.Strategy(),
		slugs,
		enrichmentTriggered,
		meta,
	)

	// Best-effort write: a cache failure never blocks the answer.
	if err := s.cache.Put(ctx, q, res); err != nil {
		log.Warn("search cache write failed", zap.Error(err))
	}

	return res, nil
}

// evaluate runs the optional LLM assessment. Failures are swallowed.
func (s *Service) evaluate(
	ctx context.Context, q query.Query, page []result.Result,
) (result.Evaluation, bool) {
	if s.evaluator == nil || len(page) == 0 {
		return result.Evaluation{}, false
	}

	evaluation, err := s.evaluator.Evaluate(ctx, q.Text(), q.TechnologyHint(), page)
	if err != nil {
		metrics.EvaluationsTotal.WithLabelValues("error").Inc()
		logger.FromContext(ctx).Warn("result evaluation failed", zap.Error(err))
		return result.Evaluation{}, false
	}
	metrics.EvaluationsTotal.WithLabelValues("ok").Inc()
	return evaluation, true
}

// maybeEnrich dispatches enrichment when the evaluation asked for it.
// Failures are swallowed and reported as not triggered.
func (s *Service) maybeEnrich(
	ctx context.Context, evaluation result.Evaluation, evaluated bool,
) bool {
	if !evaluated || !evaluation.NeedsEnrichment || s.enricher == nil {
		return false
	}

	reason := evaluation.Reasoning
	if reason == "" {
		reason = "search quality below threshold"
	}

	triggered, err := s.enricher.Trigger(ctx, evaluation.EnrichmentTopics, reason)
	if err != nil {
		logger.FromContext(ctx).Warn("enrichment trigger failed", zap.Error(err))
		return false
	}
	return triggered
}

func paginate(results []result.Result, offset, limit int) []result.Result {
	if offset >= len(results) {
		return []result.Result{}
	}
	end := offset + limit
	if end > len(results) {
		end = len(results)
	}
	return results[offset:end]
}

func evaluationMeta(e result.Evaluation) map[string]any {
	return map[string]any{
		"overall_quality":      e.OverallQuality,
		"relevance_assessment": e.RelevanceAssessment,
		"completeness_score":   e.CompletenessScore,
		"needs_enrichment":     e.NeedsEnrichment,
		"confidence_level":     e.ConfidenceLevel,
	}
}
