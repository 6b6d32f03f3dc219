package rank

import (
	"sort"

	"github.com/kailas-cloud/docdex/internal/domain"
	"github.com/kailas-cloud/docdex/internal/domain/search/result"
	"github.com/kailas-cloud/docdex/internal/domain/search/strategy"
)

// positionalDecay breaks exact score ties deterministically by list order.
const positionalDecay = 0.001

// Rank scores every result, sorts descending, and applies a small
// positional decay so equal scores keep a stable relative order.
// A scoring fault on one result keeps that result's original score.
func Rank(
	results []result.Result,
	strat strategy.Strategy,
	queryText, technologyHint string,
) (ranked []result.Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			ranked = nil
			err = domain.NewResultRanking("ranking failed", nil, map[string]any{
				"result_count": len(results),
				"strategy":     string(strat),
			})
		}
	}()

	if len(results) == 0 {
		return []result.Result{}, nil
	}

	ranked = make([]result.Result, len(results))
	for i, r := range results {
		ranked[i] = r.WithScore(scoreSafe(r, queryText, technologyHint, strat))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RelevanceScore() > ranked[j].RelevanceScore()
	})

	for i, r := range ranked {
		ranked[i] = r.WithScore(r.RelevanceScore() * (1 - positionalDecay*float64(i)))
	}

	return ranked, nil
}

// Deduplicate collapses results sharing a content id down to the highest
// scored entry, preserving first-occurrence order. It never fails: on an
// unexpected fault it returns the input unchanged.
func Deduplicate(results []result.Result) (deduped []result.Result) {
	defer func() {
		if rec := recover(); rec != nil {
			deduped = results
		}
	}()

	if len(results) <= 1 {
		return results
	}

	best := make(map[string]int, len(results))
	deduped = make([]result.Result, 0, len(results))

	for _, r := range results {
		idx, seen := best[r.ContentID()]
		if !seen {
			best[r.ContentID()] = len(deduped)
			deduped = append(deduped, r)
			continue
		}
		if r.RelevanceScore() > deduped[idx].RelevanceScore() {
			deduped[idx] = r
		}
	}

	return deduped
}
