package common

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"airspace-analytics/sectorcap/internal/constants"
	"airspace-analytics/sectorcap/internal/logging"
)

// ResultCache stores analytics results keyed by operation, arguments and data
// generation. Invalidate bumps the generation so entries computed before a data
// change are never served again.
type ResultCache struct {
	backend    CacheInterface
	ttl        time.Duration
	generation atomic.Int64

	// OnLookup, when set, is told whether each lookup was a hit
	OnLookup func(prefix constants.CachePrefix, hit bool)
}

// NewResultCache wraps a backend; a nil backend disables caching
func NewResultCache(backend CacheInterface, ttl time.Duration) *ResultCache {
	if backend == nil {
		backend = NoopCache{}
	}
	return &ResultCache{backend: backend, ttl: ttl}
}

// Invalidate makes every existing entry unreachable
func (rc *ResultCache) Invalidate() {
	if rc == nil {
		return
	}
	rc.generation.Add(1)
}

// Generation returns the current data generation
func (rc *ResultCache) Generation() int64 {
	return rc.generation.Load()
}

func (rc *ResultCache) key(prefix constants.CachePrefix, args any) (string, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return "", err
	}
	sum := sha1.Sum(raw)
	return fmt.Sprintf("%s%d_%s", prefix, rc.Generation(), hex.EncodeToString(sum[:])), nil
}

// Cached returns the cached result for (prefix, args) or computes and stores it.
// Failed computations are not cached.
func Cached[T any](rc *ResultCache, prefix constants.CachePrefix, args any, load func() (*T, error)) (*T, error) {
	if rc == nil {
		return load()
	}

	key, err := rc.key(prefix, args)
	if err != nil {
		return load()
	}

	if raw, found := rc.backend.Get(key); found {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			rc.report(prefix, true)
			return &v, nil
		}
		rc.backend.Delete(key)
	}
	rc.report(prefix, false)

	v, err := load()
	if err != nil {
		return v, err
	}

	raw, err := json.Marshal(v)
	if err != nil {
		logging.Warn("Result not cacheable", "prefix", string(prefix), "error", err.Error())
		return v, nil
	}
	rc.backend.Set(key, raw, rc.ttl)
	return v, nil
}

func (rc *ResultCache) report(prefix constants.CachePrefix, hit bool) {
	if rc.OnLookup != nil {
		rc.OnLookup(prefix, hit)
	}
}
