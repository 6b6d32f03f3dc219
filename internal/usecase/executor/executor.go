// Package executor fans a search out across workspaces with bounded
// parallelism and merges the partial results.
package executor

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docdex/internal/domain"
	"github.com/kailas-cloud/docdex/internal/domain/search/result"
	"github.com/kailas-cloud/docdex/internal/domain/search/workspace"
	"github.com/kailas-cloud/docdex/internal/logger"
	"github.com/kailas-cloud/docdex/internal/metrics"
	"github.com/kailas-cloud/docdex/internal/usecase/rank"
)

const (
	defaultConcurrency   = 5
	defaultBranchTimeout = 2 * time.Second
	defaultBranchLimit   = 20

	maxResults   = 20
	snippetLimit = 300

	// externalSlug marks the optional external provider branch.
	externalSlug = "external"
	// externalRelevance is the fixed relevance of the external branch.
	externalRelevance = 0.5

	workspaceBoostFactor = 0.2
)

// Executor runs per-workspace searches concurrently. At most `concurrency`
// backend calls are in flight at once, each bounded by its own timeout.
type Executor struct {
	searcher      VectorSearcher
	external      VectorSearcher
	concurrency   int
	branchTimeout time.Duration
	branchLimit   int
}

// New creates an executor. external may be nil when no external provider is
// configured. Zero values for concurrency, branchTimeout, and branchLimit
// fall back to defaults.
func New(
	searcher, external VectorSearcher,
	concurrency int, branchTimeout time.Duration, branchLimit int,
) *Executor {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	if branchTimeout <= 0 {
		branchTimeout = defaultBranchTimeout
	}
	if branchLimit <= 0 {
		branchLimit = defaultBranchLimit
	}
	return &Executor{
		searcher:      searcher,
		external:      external,
		concurrency:   concurrency,
		branchTimeout: branchTimeout,
		branchLimit:   branchLimit,
	}
}

type branch struct {
	slug       string
	technology string
	relevance  float64
	searcher   VectorSearcher
}

// Execute searches every workspace concurrently and merges the successful
// branches. A branch timeout or failure never cancels its siblings; only
// zero successful branches fails the whole call. The merged results are
// deduplicated, boosted by workspace relevance, and truncated to the top 20.
func (e *Executor) Execute(
	ctx context.Context,
	queryText string,
	workspaces []workspace.Info,
	includeExternal bool,
) ([]result.Result, error) {
	branches := make([]branch, 0, len(workspaces)+1)
	for _, w := range workspaces {
		branches = append(branches, branch{
			slug:       w.Slug,
			technology: w.Technology,
			relevance:  w.RelevanceScore,
			searcher:   e.searcher,
		})
	}
	if includeExternal && e.external != nil {
		branches = append(branches, branch{
			slug:      externalSlug,
			relevance: externalRelevance,
			searcher:  e.external,
		})
	}

	if len(branches) == 0 {
		return []result.Result{}, nil
	}

	log := logger.FromContext(ctx)

	var (
		mu        sync.Mutex
		collected []result.Result
		successes int
		failures  int
	)

	sem := make(chan struct{}, e.concurrency)
	var wg sync.WaitGroup

	for _, b := range branches {
		wg.Add(1)
		go func(b branch) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			hits, err := e.searchBranch(ctx, b, queryText)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures++
				outcome := "error"
				if errors.Is(err, domain.ErrSearchTimeout) {
					outcome = "timeout"
				}
				metrics.SearchBranchesTotal.WithLabelValues(outcome).Inc()
				log.Warn("workspace search branch failed",
					zap.String("workspace", b.slug),
					zap.Error(err),
				)
				return
			}
			successes++
			metrics.SearchBranchesTotal.WithLabelValues("ok").Inc()
			collected = append(collected, hits...)
		}(b)
	}

	wg.Wait()

	if successes == 0 {
		return nil, domain.NewVectorSearch("all workspace searches failed", nil, map[string]any{
			"query":         queryText,
			"failure_count": failures,
		})
	}

	relevance := make(map[string]float64, len(branches))
	for _, b := range branches {
		relevance[b.slug] = b.relevance
	}

	merged := rank.Deduplicate(collected)
	for i, r := range merged {
		merged[i] = r.WithScore(r.RelevanceScore() + relevance[r.WorkspaceSlug()]*workspaceBoostFactor)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].RelevanceScore() > merged[j].RelevanceScore()
	})
	if len(merged) > maxResults {
		merged = merged[:maxResults]
	}

	return merged, nil
}

// searchBranch runs one backend call under the per-branch timeout and
// converts its raw hits.
func (e *Executor) searchBranch(ctx context.Context, b branch, queryText string) ([]result.Result, error) {
	bctx, cancel := context.WithTimeout(ctx, e.branchTimeout)
	defer cancel()

	hits, err := b.searcher.Search(bctx, b.slug, queryText, e.branchLimit)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.NewSearchTimeout("workspace search timed out", err, map[string]any{
				"workspace":  b.slug,
				"timeout_ms": e.branchTimeout.Milliseconds(),
			})
		}
		return nil, domain.NewVectorSearch("workspace search failed", err, map[string]any{
			"workspace": b.slug,
		})
	}

	converted := make([]result.Result, 0, len(hits))
	for _, h := range hits {
		converted = append(converted, convertHit(h, b))
	}
	return converted, nil
}

// convertHit maps a raw backend hit into the canonical result shape,
// truncating content to a snippet and tagging the owning workspace.
func convertHit(h Hit, b branch) result.Result {
	contentID := metaString(h.Metadata, "document_id")
	if contentID == "" {
		contentID = metaString(h.Metadata, "source_url")
	}

	r := result.New(
		contentID,
		metaString(h.Metadata, "document_title"),
		truncate(h.Content, snippetLimit),
		metaString(h.Metadata, "source_url"),
		h.Score,
		h.Metadata,
	).WithWorkspace(b.slug)

	if b.technology != "" {
		r = r.WithTechnology(b.technology)
	}
	if idx, ok := metaInt(h.Metadata, "chunk_index"); ok {
		r = r.WithChunkIndex(idx)
	}
	return r
}

func metaString(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func metaInt(m map[string]any, key string) (int, bool) {
	switch v := m[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	}
	return 0, false
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
