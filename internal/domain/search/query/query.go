// Package query defines the validated, immutable search query.
package query

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/docdex/internal/domain/search/strategy"
)

// Search parameter limits.
const (
	MaxQueryLength = 4096
	DefaultLimit   = 20
	MaxLimit       = 100
)

// Query is a validated search query. Immutable once constructed; the
// orchestrator works on a normalized copy rather than mutating the original.
type Query struct {
	text              string
	filters           map[string]any
	searchStrategy    strategy.Strategy
	limit             int
	offset            int
	technologyHint    string
	workspaceSlugs    []string
	useExternalSearch *bool
}

// New validates and builds a search query.
// Defaults: strategy=hybrid, limit=20 (clamped to 1..100), offset=0.
func New(
	text string,
	strat strategy.Strategy,
	filters map[string]any,
	limit, offset int,
	technologyHint string,
	workspaceSlugs []string,
	useExternalSearch *bool,
) (Query, error) {
	if strings.TrimSpace(text) == "" {
		return Query{}, fmt.Errorf("query is required")
	}
	if len(text) > MaxQueryLength {
		return Query{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if strat == "" {
		strat = strategy.Hybrid
	}
	if !strat.IsValid() {
		return Query{}, fmt.Errorf("invalid search strategy: %q", strat)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}

	return Query{
		text:              text,
		filters:           filters,
		searchStrategy:    strat,
		limit:             limit,
		offset:            offset,
		technologyHint:    technologyHint,
		workspaceSlugs:    workspaceSlugs,
		useExternalSearch: useExternalSearch,
	}, nil
}

// Normalize returns a copy with canonical query text and technology hint:
// lowercased, trimmed, inner whitespace collapsed. Idempotent.
func (q Query) Normalize() Query {
	out := q
	out.text = normalizeText(q.text)
	out.technologyHint = normalizeText(q.technologyHint)
	return out
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Text returns the query text.
func (q *Query) Text() string { return q.text }

// Filters returns the structured filter map.
func (q *Query) Filters() map[string]any { return q.filters }

// Strategy returns the search strategy.
func (q *Query) Strategy() strategy.Strategy { return q.searchStrategy }

// Limit returns the maximum results to return.
func (q *Query) Limit() int { return q.limit }

// Offset returns the pagination offset.
func (q *Query) Offset() int { return q.offset }

// TechnologyHint returns the optional technology hint.
func (q *Query) TechnologyHint() string { return q.technologyHint }

// WorkspaceSlugs returns the explicit workspace subset filter.
func (q *Query) WorkspaceSlugs() []string { return q.workspaceSlugs }

// UseExternalSearch returns the external-provider flag: explicit true,
// explicit false, or nil for unset.
func (q *Query) UseExternalSearch() *bool { return q.useExternalSearch }
