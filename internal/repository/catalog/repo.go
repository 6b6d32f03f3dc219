// Package catalog persists the workspace catalog as key-value store hashes.
package catalog

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docdex/internal/domain/search/workspace"
	"github.com/kailas-cloud/docdex/internal/logger"
)

const workspaceNamespace = "workspace:"

// store is the consumer interface for the catalog (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/workspace.CatalogStore plus the admin write path.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a catalog repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

func (r *Repo) key(slug string) string {
	return r.keyPrefix + workspaceNamespace + slug
}

// List returns every workspace whose ingestion status is completed, in
// stable slug order. Records that fail to hydrate are skipped with a warning
// rather than failing the whole listing.
func (r *Repo) List(ctx context.Context) ([]workspace.Info, error) {
	keys, err := r.store.Scan(ctx, r.keyPrefix+workspaceNamespace+"*")
	if err != nil {
		return nil, fmt.Errorf("scan workspaces: %w", err)
	}
	if len(keys) == 0 {
		return []workspace.Info{}, nil
	}
	sort.Strings(keys)

	rows, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load workspaces: %w", err)
	}

	log := logger.FromContext(ctx)
	out := make([]workspace.Info, 0, len(rows))
	for i, row := range rows {
		if len(row) == 0 || row["status"] != statusCompleted {
			continue
		}
		w, err := workspaceFromHash(row)
		if err != nil {
			log.Warn("skipping malformed workspace record",
				zap.String("key", keys[i]), zap.Error(err))
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

// Put registers or updates a workspace record.
func (r *Repo) Put(ctx context.Context, w workspace.Info, status string) error {
	if w.Slug == "" {
		return fmt.Errorf("workspace slug is required")
	}
	if status == "" {
		status = statusCompleted
	}
	if err := r.store.HSet(ctx, r.key(w.Slug), workspaceToHash(w, status)); err != nil {
		return fmt.Errorf("store workspace %s: %w", w.Slug, err)
	}
	return nil
}

// Delete removes a workspace record.
func (r *Repo) Delete(ctx context.Context, slug string) error {
	if err := r.store.Del(ctx, r.key(slug)); err != nil {
		return fmt.Errorf("delete workspace %s: %w", slug, err)
	}
	return nil
}
