// Package rank scores, orders, and deduplicates search results.
package rank

import (
	"math"
	"strings"
	"time"

	"github.com/kailas-cloud/docdex/internal/domain/search/result"
	"github.com/kailas-cloud/docdex/internal/domain/search/strategy"
)

// Component weights of the composite relevance score. They sum to 1.0.
const (
	weightVectorSimilarity  = 0.40
	weightMetadataRelevance = 0.20
	weightRecency           = 0.15
	weightQuality           = 0.15
	weightTechnologyMatch   = 0.10
)

// recencyHalfLifeDays halves the recency component every 180 days.
const recencyHalfLifeDays = 180.0

// Score computes the composite relevance score for a single result.
// The query text and technology hint are expected to be normalized
// (lowercased, trimmed). The returned score is clamped to [0, 1].
func Score(r result.Result, queryText, technologyHint string, strat strategy.Strategy) float64 {
	sum := weightVectorSimilarity*r.RelevanceScore() +
		weightMetadataRelevance*metadataRelevance(r, queryText) +
		weightRecency*recency(r, time.Now()) +
		weightQuality*quality(r) +
		weightTechnologyMatch*technologyMatch(r, technologyHint)

	return clamp(sum * strat.Multiplier())
}

// metadataRelevance rewards query containment in title, snippet, and URL.
// Capped at 1.0.
func metadataRelevance(r result.Result, queryText string) float64 {
	if queryText == "" {
		return 0
	}

	var score float64
	if strings.Contains(strings.ToLower(r.Title()), queryText) {
		score += 0.5
	}
	if strings.Contains(strings.ToLower(r.ContentSnippet()), queryText) {
		score += 0.3
	}

	sourceURL := strings.ToLower(r.SourceURL())
	for _, word := range strings.Fields(queryText) {
		if strings.Contains(sourceURL, word) {
			score += 0.2
			break
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// recency applies exponential decay over the most recent timestamp found in
// metadata. Results without a parseable date get a neutral 0.5.
func recency(r result.Result, now time.Time) float64 {
	ts, ok := latestTimestamp(r.Metadata())
	if !ok {
		return 0.5
	}

	ageDays := now.Sub(ts).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	return math.Exp(-ageDays * math.Ln2 / recencyHalfLifeDays)
}

func latestTimestamp(metadata map[string]any) (time.Time, bool) {
	var latest time.Time
	found := false

	for _, key := range []string{"updated_at", "created_at"} {
		ts, ok := parseTimestamp(metadata[key])
		if ok && (!found || ts.After(latest)) {
			latest = ts
			found = true
		}
	}

	return latest, found
}

func parseTimestamp(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, true
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if ts, err := time.Parse(layout, val); err == nil {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}

func quality(r result.Result) float64 {
	if q := r.QualityScore(); q != nil {
		return *q
	}
	return 0.5
}

// technologyMatch grades how well the result matches the technology hint,
// from exact tag match down to no signal at all.
func technologyMatch(r result.Result, technologyHint string) float64 {
	if technologyHint == "" {
		return 0.5
	}

	switch {
	case strings.EqualFold(r.Technology(), technologyHint):
		return 1.0
	case strings.Contains(strings.ToLower(r.Title()), technologyHint):
		return 0.8
	case strings.Contains(strings.ToLower(r.ContentSnippet()), technologyHint):
		return 0.6
	case metadataContains(r.Metadata(), technologyHint):
		return 0.4
	default:
		return 0.1
	}
}

func metadataContains(metadata map[string]any, needle string) bool {
	for _, v := range metadata {
		if s, ok := v.(string); ok && strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// scoreSafe isolates per-result scoring faults: a panic while scoring one
// result falls back to its original score instead of failing the batch.
func scoreSafe(
	r result.Result, queryText, technologyHint string, strat strategy.Strategy,
) (score float64) {
	defer func() {
		if rec := recover(); rec != nil {
			score = r.RelevanceScore()
		}
	}()
	return Score(r, queryText, technologyHint, strat)
}
