package catalog

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/docdex/internal/domain/search/workspace"
)

// statusCompleted marks a workspace whose ingestion finished; only these are
// returned to the selector.
const statusCompleted = "completed"

// workspaceToHash converts a workspace record to a map for HSET.
func workspaceToHash(w workspace.Info, status string) map[string]string {
	fields := map[string]string{
		"slug":         w.Slug,
		"technology":   w.Technology,
		"last_updated": w.LastUpdated.UTC().Format(time.RFC3339),
		"status":       status,
	}
	if w.DocumentCount != nil {
		fields["document_count"] = strconv.Itoa(*w.DocumentCount)
	}
	return fields
}

// workspaceFromHash hydrates a workspace record from an HGETALL result map.
func workspaceFromHash(m map[string]string) (workspace.Info, error) {
	slug := m["slug"]
	if slug == "" {
		return workspace.Info{}, fmt.Errorf("workspace record missing slug")
	}

	w := workspace.Info{
		Slug:       slug,
		Technology: m["technology"],
	}

	if raw := m["last_updated"]; raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return workspace.Info{}, fmt.Errorf("invalid last_updated for %s: %w", slug, err)
		}
		w.LastUpdated = ts
	}

	if raw := m["document_count"]; raw != "" {
		count, err := strconv.Atoi(raw)
		if err != nil {
			return workspace.Info{}, fmt.Errorf("invalid document_count for %s: %w", slug, err)
		}
		w.DocumentCount = &count
	}

	return w, nil
}
