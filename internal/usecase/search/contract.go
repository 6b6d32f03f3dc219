package search

import (
	"context"

	"github.com/kailas-cloud/docdex/internal/domain/search/query"
	"github.com/kailas-cloud/docdex/internal/domain/search/result"
	"github.com/kailas-cloud/docdex/internal/domain/search/workspace"
)

// Cache reads and writes finished search envelopes.
type Cache interface {
	Get(ctx context.Context, q query.Query) (result.Results, bool, error)
	Put(ctx context.Context, q query.Query, res result.Results) error
}

// Selector picks the workspaces a search fans out to.
type Selector interface {
	Select(ctx context.Context, queryText, technologyHint string, slugFilter []string) ([]workspace.Info, error)
}

// Executor runs the bounded parallel fan-out across workspaces.
type Executor interface {
	Execute(ctx context.Context, queryText string, workspaces []workspace.Info, includeExternal bool) ([]result.Result, error)
}

// Evaluator grades result quality through an LLM.
type Evaluator interface {
	Evaluate(ctx context.Context, queryText, technologyHint string, results []result.Result) (result.Evaluation, error)
}

// Enricher dispatches fire-and-forget content enrichment.
type Enricher interface {
	Trigger(ctx context.Context, topics []string, reason string) (bool, error)
}
