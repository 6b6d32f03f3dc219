package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/docdex/internal/domain/search/workspace"
)

// --- Mocks ---

type mockStore struct {
	hsetFn         func(ctx context.Context, key string, fields map[string]string) error
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	delFn          func(ctx context.Context, key string) error
	scanFn         func(ctx context.Context, pattern string) ([]string, error)

	hsetKeys   []string
	hsetFields []map[string]string
	delKeys    []string
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	m.hsetKeys = append(m.hsetKeys, key)
	m.hsetFields = append(m.hsetFields, fields)
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return nil, nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	m.delKeys = append(m.delKeys, key)
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

func newTestRepo() (*Repo, *mockStore) {
	ms := &mockStore{}
	return New(ms, "docdex:"), ms
}

func workspaceRow(slug, technology, status string) map[string]string {
	return map[string]string{
		"slug":           slug,
		"technology":     technology,
		"last_updated":   "2026-01-15T10:00:00Z",
		"document_count": "120",
		"status":         status,
	}
}

// --- Tests ---

func TestList_ReturnsCompletedWorkspaces(t *testing.T) {
	repo, ms := newTestRepo()
	ms.scanFn = func(_ context.Context, pattern string) ([]string, error) {
		if pattern != "docdex:workspace:*" {
			t.Errorf("unexpected scan pattern %q", pattern)
		}
		return []string{"docdex:workspace:py-docs", "docdex:workspace:go-docs"}, nil
	}
	ms.hgetAllMultiFn = func(_ context.Context, _ []string) ([]map[string]string, error) {
		return []map[string]string{
			workspaceRow("go-docs", "go", statusCompleted),
			workspaceRow("py-docs", "python", statusCompleted),
		}, nil
	}

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 workspaces, got %d", len(got))
	}

	w := got[0]
	if w.Slug != "go-docs" || w.Technology != "go" {
		t.Errorf("unexpected workspace: %+v", w)
	}
	if w.DocumentCount == nil || *w.DocumentCount != 120 {
		t.Errorf("document_count = %v, want 120", w.DocumentCount)
	}
	want := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	if !w.LastUpdated.Equal(want) {
		t.Errorf("last_updated = %v, want %v", w.LastUpdated, want)
	}
}

func TestList_FiltersIncompleteWorkspaces(t *testing.T) {
	repo, ms := newTestRepo()
	ms.scanFn = func(_ context.Context, _ string) ([]string, error) {
		return []string{"docdex:workspace:a", "docdex:workspace:b", "docdex:workspace:c"}, nil
	}
	ms.hgetAllMultiFn = func(_ context.Context, _ []string) ([]map[string]string, error) {
		return []map[string]string{
			workspaceRow("a", "python", statusCompleted),
			workspaceRow("b", "go", "processing"),
			workspaceRow("c", "rust", "failed"),
		}, nil
	}

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Slug != "a" {
		t.Errorf("expected only completed workspace a, got %v", got)
	}
}

func TestList_SkipsMalformedRecords(t *testing.T) {
	repo, ms := newTestRepo()
	ms.scanFn = func(_ context.Context, _ string) ([]string, error) {
		return []string{"docdex:workspace:a", "docdex:workspace:bad"}, nil
	}
	ms.hgetAllMultiFn = func(_ context.Context, _ []string) ([]map[string]string, error) {
		return []map[string]string{
			workspaceRow("a", "python", statusCompleted),
			{"slug": "bad", "status": statusCompleted, "document_count": "many"},
		}, nil
	}

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("expected malformed record skipped, got error: %v", err)
	}
	if len(got) != 1 || got[0].Slug != "a" {
		t.Errorf("expected only the valid workspace, got %v", got)
	}
}

func TestList_EmptyCatalog(t *testing.T) {
	repo, _ := newTestRepo()

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty list, got %d", len(got))
	}
}

func TestList_ScanFailure(t *testing.T) {
	repo, ms := newTestRepo()
	ms.scanFn = func(_ context.Context, _ string) ([]string, error) {
		return nil, errors.New("connection reset")
	}

	if _, err := repo.List(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestPut_WritesHash(t *testing.T) {
	repo, ms := newTestRepo()
	count := 42
	w := workspace.Info{
		Slug:          "py-docs",
		Technology:    "python",
		LastUpdated:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		DocumentCount: &count,
	}

	if err := repo.Put(context.Background(), w, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ms.hsetKeys) != 1 || ms.hsetKeys[0] != "docdex:workspace:py-docs" {
		t.Fatalf("unexpected hset keys %v", ms.hsetKeys)
	}
	fields := ms.hsetFields[0]
	if fields["technology"] != "python" || fields["status"] != statusCompleted {
		t.Errorf("unexpected fields %v", fields)
	}
	if fields["document_count"] != "42" {
		t.Errorf("document_count = %q", fields["document_count"])
	}
	if fields["last_updated"] != "2026-03-01T12:00:00Z" {
		t.Errorf("last_updated = %q", fields["last_updated"])
	}
}

func TestPut_RequiresSlug(t *testing.T) {
	repo, _ := newTestRepo()

	if err := repo.Put(context.Background(), workspace.Info{}, ""); err == nil {
		t.Fatal("expected error for missing slug")
	}
}

func TestDelete_RemovesKey(t *testing.T) {
	repo, ms := newTestRepo()

	if err := repo.Delete(context.Background(), "py-docs"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ms.delKeys) != 1 || ms.delKeys[0] != "docdex:workspace:py-docs" {
		t.Errorf("unexpected delete keys %v", ms.delKeys)
	}
}
