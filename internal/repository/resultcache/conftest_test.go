package resultcache

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/docdex/internal/domain/search/query"
	"github.com/kailas-cloud/docdex/internal/domain/search/result"
	"github.com/kailas-cloud/docdex/internal/domain/search/strategy"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	getFn        func(ctx context.Context, key string) ([]byte, error)
	setWithTTLFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	incrByFn     func(ctx context.Context, key string, val int64) error
	delFn        func(ctx context.Context, key string) error
	scanFn       func(ctx context.Context, pattern string) ([]string, error)

	setKeys  []string
	setData  [][]byte
	incrKeys []string
	delKeys  []string
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, nil
}

func (m *mockStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.setKeys = append(m.setKeys, key)
	m.setData = append(m.setData, value)
	if m.setWithTTLFn != nil {
		return m.setWithTTLFn(ctx, key, value, ttl)
	}
	return nil
}

func (m *mockStore) IncrBy(ctx context.Context, key string, val int64) error {
	m.incrKeys = append(m.incrKeys, key)
	if m.incrByFn != nil {
		return m.incrByFn(ctx, key, val)
	}
	return nil
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
	return New(ms, "docdex:", time.Hour), ms
}

func mustQuery(
	t *testing.T,
	text string,
	strat strategy.Strategy,
	filters map[string]any,
	limit, offset int,
	hint string,
	slugs []string,
) query.Query {
	t.Helper()
	q, err := query.New(text, strat, filters, limit, offset, hint, slugs, nil)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	return q
}

func simpleQuery(t *testing.T, text string) query.Query {
	t.Helper()
	return mustQuery(t, text, strategy.Hybrid, nil, 20, 0, "", nil)
}

func sampleResults() result.Results {
	hits := []result.Result{
		result.New("doc-1", "FastAPI Guide", "getting started", "https://x.com/guide", 0.9,
			map[string]any{"updated_at": "2026-01-01"}).
			WithTechnology("python").WithWorkspace("py-docs"),
	}
	return result.NewResults(hits, 1, 42, strategy.Hybrid, []string{"py-docs"}, false, nil)
}
