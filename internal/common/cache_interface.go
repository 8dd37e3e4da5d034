package common

import "time"

// CacheInterface defines the contract for cache implementations.
// Values are opaque bytes so that in-memory and Redis backends behave the same.
type CacheInterface interface {
	// Set stores a value in cache with the given key and duration
	Set(key string, value []byte, duration time.Duration)

	// Get retrieves a value from cache by key
	// Returns the value and true if found, nil and false otherwise
	Get(key string) ([]byte, bool)

	// Delete removes a value from cache by key
	Delete(key string)

	// Close closes any underlying connections (for Redis, etc.)
	Close() error
}

// NoopCache disables caching
type NoopCache struct{}

var _ CacheInterface = NoopCache{}

func (NoopCache) Set(string, []byte, time.Duration) {}
func (NoopCache) Get(string) ([]byte, bool)         { return nil, false }
func (NoopCache) Delete(string)                     {}
func (NoopCache) Close() error                      { return nil }
