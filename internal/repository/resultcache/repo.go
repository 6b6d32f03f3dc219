// Package resultcache stores finished search envelopes in a key-value store
// under deterministic query-derived keys.
package resultcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docdex/internal/db"
	"github.com/kailas-cloud/docdex/internal/domain"
	"github.com/kailas-cloud/docdex/internal/domain/search/query"
	"github.com/kailas-cloud/docdex/internal/domain/search/result"
	"github.com/kailas-cloud/docdex/internal/logger"
)

const (
	cacheNamespace = "search_cache:"
	hitsNamespace  = "search_hits:"
	hashLength     = 32
	defaultTTL     = time.Hour
)

// store is the consumer interface for the result cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	IncrBy(ctx context.Context, key string, val int64) error
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/search.Cache plus pattern invalidation.
type Repo struct {
	store     store
	keyPrefix string
	ttl       time.Duration
}

// New creates a result cache repository. ttl <= 0 falls back to one hour.
func New(s store, keyPrefix string, ttl time.Duration) *Repo {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Repo{store: s, keyPrefix: keyPrefix, ttl: ttl}
}

// Key derives the deterministic cache key for a query. The query is
// normalized first, so equal-up-to-case-and-whitespace queries collide on
// purpose; any other parameter change produces a different key.
func (r *Repo) Key(q query.Query) string {
	return r.keyPrefix + cacheNamespace + hashQuery(q)
}

func (r *Repo) hitsKey(hash string) string {
	return r.keyPrefix + hitsNamespace + hash
}

func hashQuery(q query.Query) string {
	n := q.Normalize()

	slugs := append([]string(nil), n.WorkspaceSlugs()...)
	sort.Strings(slugs)

	// json.Marshal sorts map keys, giving a canonical filter encoding.
	filters, err := json.Marshal(n.Filters())
	if err != nil {
		filters = []byte("{}")
	}

	tuple := strings.Join([]string{
		n.Text(),
		string(n.Strategy()),
		fmt.Sprintf("%d", n.Limit()),
		fmt.Sprintf("%d", n.Offset()),
		n.TechnologyHint(),
		strings.Join(slugs, ","),
		string(filters),
	}, "|")

	h := sha256.Sum256([]byte(tuple))
	return hex.EncodeToString(h[:])[:hashLength]
}

// Get returns the cached envelope for q, if present and unexpired. Records
// past their expiry are treated as absent and proactively deleted. Store
// failures surface as recoverable cache errors; the caller treats them as a
// miss.
func (r *Repo) Get(ctx context.Context, q query.Query) (result.Results, bool, error) {
	key := r.Key(q)

	data, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return result.Results{}, false, nil
		}
		return result.Results{}, false, domain.NewSearchCache("cache read failed", err, map[string]any{
			"key": key,
		})
	}

	var dto envelopeDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		// Corrupted record: drop it and report a miss.
		r.deleteQuietly(ctx, key)
		return result.Results{}, false, nil
	}

	if time.Now().After(dto.ExpiresAt) {
		r.deleteQuietly(ctx, key)
		return result.Results{}, false, nil
	}

	if err := r.store.IncrBy(ctx, r.hitsKey(dto.QueryHash), 1); err != nil {
		logger.FromContext(ctx).Warn("cache hit counter update failed",
			zap.String("key", key), zap.Error(err))
	}

	return fromEnvelopeDTO(dto), true, nil
}

// Put stores the envelope under the query's key. Best-effort: failures
// surface as recoverable cache errors the caller logs and ignores.
func (r *Repo) Put(ctx context.Context, q query.Query, res result.Results) error {
	hash := hashQuery(q)
	key := r.keyPrefix + cacheNamespace + hash

	dto := toEnvelopeDTO(hash, res, time.Now(), r.ttl)
	data, err := json.Marshal(dto)
	if err != nil {
		return domain.NewSearchCache("cache encode failed", err, map[string]any{"key": key})
	}

	if err := r.store.SetWithTTL(ctx, key, data, r.ttl); err != nil {
		return domain.NewSearchCache("cache write failed", err, map[string]any{"key": key})
	}
	return nil
}

// Invalidate removes cached envelopes matching pattern (glob, empty matches
// everything) and returns how many were deleted.
func (r *Repo) Invalidate(ctx context.Context, pattern string) (int, error) {
	if pattern == "" {
		pattern = "*"
	}
	scanPattern := r.keyPrefix + cacheNamespace + pattern

	keys, err := r.store.Scan(ctx, scanPattern)
	if err != nil {
		return 0, domain.NewSearchCache("cache scan failed", err, map[string]any{
			"pattern": scanPattern,
		})
	}

	deleted := 0
	for _, key := range keys {
		if err := r.store.Del(ctx, key); err != nil {
			logger.FromContext(ctx).Warn("cache invalidation delete failed",
				zap.String("key", key), zap.Error(err))
			continue
		}
		deleted++
	}
	return deleted, nil
}

func (r *Repo) deleteQuietly(ctx context.Context, key string) {
	if err := r.store.Del(ctx, key); err != nil {
		logger.FromContext(ctx).Warn("cache delete failed", zap.String("key", key), zap.Error(err))
	}
}
