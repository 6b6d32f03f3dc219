// Package workspace selects the backend workspaces a search fans out to.
package workspace

import (
	"context"
	"sort"
	"strings"

	"github.com/kailas-cloud/docdex/internal/domain"
	"github.com/kailas-cloud/docdex/internal/domain/search/tech"
	"github.com/kailas-cloud/docdex/internal/domain/search/workspace"
)

// maxWorkspaces caps how many workspaces a single search fans out to.
const maxWorkspaces = 5

// Candidate scoring signals.
const (
	scoreExactHint      = 0.5
	scoreQueryKeyword   = 0.8
	scoreTriggerLiteral = 0.3
	scoreNoSignal       = 0.1
)

// Selector scores catalog workspaces against a query and picks the most
// relevant ones.
type Selector struct {
	catalog CatalogStore
}

// NewSelector creates a workspace selector.
func NewSelector(catalog CatalogStore) *Selector {
	return &Selector{catalog: catalog}
}

// Select returns up to 5 workspaces ordered by descending query relevance.
// The query text and technology hint are expected to be normalized. An empty
// catalog yields an empty selection, not an error. When slugFilter is
// non-empty, only the named workspaces are considered.
func (s *Selector) Select(
	ctx context.Context, queryText, technologyHint string, slugFilter []string,
) ([]workspace.Info, error) {
	candidates, err := s.catalog.List(ctx)
	if err != nil {
		return nil, domain.NewWorkspaceSelection("list workspaces", err, map[string]any{
			"query":           queryText,
			"technology_hint": technologyHint,
		})
	}

	if len(slugFilter) > 0 {
		candidates = filterBySlug(candidates, slugFilter)
	}
	if len(candidates) == 0 {
		return []workspace.Info{}, nil
	}

	queryTags := tech.Tags(queryText)

	scored := make([]workspace.Info, 0, len(candidates))
	for _, c := range candidates {
		c.RelevanceScore = scoreCandidate(c, queryText, technologyHint, queryTags)
		scored = append(scored, c)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RelevanceScore > scored[j].RelevanceScore
	})

	if len(scored) > maxWorkspaces {
		scored = scored[:maxWorkspaces]
	}

	return scored, nil
}

// scoreCandidate accumulates the relevance signals for one workspace.
func scoreCandidate(
	c workspace.Info, queryText, technologyHint string, queryTags map[string]bool,
) float64 {
	technology := strings.ToLower(c.Technology)

	var score float64
	if technologyHint != "" && technology == technologyHint {
		score += scoreExactHint
	}
	if queryTags[technology] {
		score += scoreQueryKeyword
	}
	for _, trigger := range tech.Triggers(technology) {
		if strings.Contains(queryText, trigger) {
			score += scoreTriggerLiteral
			break
		}
	}

	if score == 0 {
		score = scoreNoSignal
	}
	if score > 1 {
		score = 1
	}
	return score
}

func filterBySlug(candidates []workspace.Info, slugs []string) []workspace.Info {
	allowed := make(map[string]bool, len(slugs))
	for _, s := range slugs {
		allowed[strings.ToLower(s)] = true
	}

	kept := candidates[:0]
	for _, c := range candidates {
		if allowed[strings.ToLower(c.Slug)] {
			kept = append(kept, c)
		}
	}
	return kept
}
