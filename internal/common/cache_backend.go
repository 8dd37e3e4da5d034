package common

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"airspace-analytics/sectorcap/internal/config"
)

// NewCacheBackend builds the result cache store selected by cache_backend.
// The generation counter of ResultCache lives in process memory, so Redis
// keys are namespaced by process start to keep a restarted server from
// reading entries computed against older data.
func NewCacheBackend(ctx context.Context, cfg *config.Config) (CacheInterface, error) {
	switch cfg.CacheBackend {
	case config.CacheBackendMemory:
		return NewCacheService(cfg.CacheTTL, 2*cfg.CacheTTL), nil
	case config.CacheBackendRedis:
		return NewRedisCacheService(ctx, RedisOptions{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			Namespace: strconv.FormatInt(time.Now().UnixNano(), 36),
		})
	case config.CacheBackendNone:
		return NoopCache{}, nil
	}
	return nil, fmt.Errorf("unknown cache_backend %q", cfg.CacheBackend)
}
