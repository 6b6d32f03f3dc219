package executor

import "context"

// Hit is a raw backend search hit before conversion to the canonical result
// shape.
type Hit struct {
	Content  string
	Score    float64
	Metadata map[string]any
}

// VectorSearcher queries one workspace's search backend.
type VectorSearcher interface {
	Search(ctx context.Context, workspaceSlug, queryText string, limit int) ([]Hit, error)
}
