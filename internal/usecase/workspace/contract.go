package workspace

import (
	"context"

	"github.com/kailas-cloud/docdex/internal/domain/search/workspace"
)

// CatalogStore lists the workspaces whose ingestion has completed.
type CatalogStore interface {
	List(ctx context.Context) ([]workspace.Info, error)
}
