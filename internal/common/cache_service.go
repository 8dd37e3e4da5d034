package common

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// CacheService is the in-memory cache implementation
type CacheService struct {
	cache *cache.Cache
}

// Ensure CacheService implements CacheInterface
var _ CacheInterface = (*CacheService)(nil)

func NewCacheService(defaultExpiration, cleanUpInterval time.Duration) *CacheService {
	c := cache.New(defaultExpiration, cleanUpInterval)
	return &CacheService{cache: c}
}

func (cs *CacheService) Set(key string, value []byte, duration time.Duration) {
	cs.cache.Set(key, value, duration)
}

func (cs *CacheService) Get(key string) ([]byte, bool) {
	v, found := cs.cache.Get(key)
	if !found {
		return nil, false
	}
	b, ok := v.([]byte)
	return b, ok
}

func (cs *CacheService) Delete(key string) {
	cs.cache.Delete(key)
}

// Flush drops every entry
func (cs *CacheService) Flush() {
	cs.cache.Flush()
}

// ItemCount reports the number of cached entries, including expired ones not yet cleaned up
func (cs *CacheService) ItemCount() int {
	return cs.cache.ItemCount()
}

// Close drops every entry
func (cs *CacheService) Close() error {
	cs.Flush()
	return nil
}
