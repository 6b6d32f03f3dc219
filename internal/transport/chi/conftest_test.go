package chi

import (
	"context"

	"github.com/kailas-cloud/docdex/internal/domain/search/query"
	"github.com/kailas-cloud/docdex/internal/domain/search/result"
	"github.com/kailas-cloud/docdex/internal/domain/search/strategy"
	"github.com/kailas-cloud/docdex/internal/domain/search/workspace"
	healthuc "github.com/kailas-cloud/docdex/internal/usecase/health"
	"go.uber.org/zap"
)

// --- Mocks ---

type mockSearcher struct {
	searchFn  func(ctx context.Context, q query.Query) (result.Results, error)
	lastQuery query.Query
}

func (m *mockSearcher) Search(ctx context.Context, q query.Query) (result.Results, error) {
	m.lastQuery = q
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return result.Results{}, nil
}

type mockCacheAdmin struct {
	invalidateFn func(ctx context.Context, pattern string) (int, error)
	lastPattern  string
}

func (m *mockCacheAdmin) Invalidate(ctx context.Context, pattern string) (int, error) {
	m.lastPattern = pattern
	if m.invalidateFn != nil {
		return m.invalidateFn(ctx, pattern)
	}
	return 0, nil
}

type mockCatalogAdmin struct {
	listFn     func(ctx context.Context) ([]workspace.Info, error)
	putFn      func(ctx context.Context, w workspace.Info, status string) error
	deleteFn   func(ctx context.Context, slug string) error
	lastPut    workspace.Info
	lastStatus string
	lastSlug   string
}

func (m *mockCatalogAdmin) List(ctx context.Context) ([]workspace.Info, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockCatalogAdmin) Put(ctx context.Context, w workspace.Info, status string) error {
	m.lastPut = w
	m.lastStatus = status
	if m.putFn != nil {
		return m.putFn(ctx, w, status)
	}
	return nil
}

func (m *mockCatalogAdmin) Delete(ctx context.Context, slug string) error {
	m.lastSlug = slug
	if m.deleteFn != nil {
		return m.deleteFn(ctx, slug)
	}
	return nil
}

type mockHealth struct {
	checkFn func(ctx context.Context) healthuc.Report
}

func (m *mockHealth) Check(ctx context.Context) healthuc.Report {
	if m.checkFn != nil {
		return m.checkFn(ctx)
	}
	return healthuc.Report{
		Status: healthuc.Healthy,
		Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK},
	}
}

// --- Helpers ---

func newTestServer(
	search *mockSearcher,
	cache *mockCacheAdmin,
	catalog *mockCatalogAdmin,
	health *mockHealth,
) *Server {
	if search == nil {
		search = &mockSearcher{}
	}
	if cache == nil {
		cache = &mockCacheAdmin{}
	}
	if catalog == nil {
		catalog = &mockCatalogAdmin{}
	}
	if health == nil {
		health = &mockHealth{}
	}
	return NewServer(search, cache, catalog, health, zap.NewNop())
}

func sampleEnvelope() result.Results {
	hit := result.New("doc-1", "FastAPI Tutorial", "Getting started with FastAPI.",
		"https://example.com/fastapi", 0.9, map[string]any{"lang": "python"}).
		WithWorkspace("py-docs").
		WithTechnology("python")
	return result.NewResults(
		[]result.Result{hit}, 1, 42, strategy.Hybrid,
		[]string{"py-docs"}, false,
		map[string]any{"trace_id": "t-1"},
	)
}
