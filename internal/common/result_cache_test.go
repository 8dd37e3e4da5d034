package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"airspace-analytics/sectorcap/internal/config"
	"airspace-analytics/sectorcap/internal/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Value int `json:"value"`
}

func TestCached_HitAfterMiss(t *testing.T) {
	rc := NewResultCache(NewCacheService(time.Minute, time.Minute), time.Minute)
	calls := 0
	load := func() (*payload, error) {
		calls++
		return &payload{Value: 7}, nil
	}

	var hits []bool
	rc.OnLookup = func(_ constants.CachePrefix, hit bool) { hits = append(hits, hit) }

	v, err := Cached(rc, constants.CachePrefixDemand, map[string]int{"days": 7}, load)
	require.NoError(t, err)
	assert.Equal(t, 7, v.Value)

	v, err = Cached(rc, constants.CachePrefixDemand, map[string]int{"days": 7}, load)
	require.NoError(t, err)
	assert.Equal(t, 7, v.Value)

	assert.Equal(t, 1, calls)
	assert.Equal(t, []bool{false, true}, hits)
}

func TestCached_InvalidateForcesReload(t *testing.T) {
	rc := NewResultCache(NewCacheService(time.Minute, time.Minute), time.Minute)
	calls := 0
	load := func() (*payload, error) {
		calls++
		return &payload{Value: calls}, nil
	}

	_, _ = Cached(rc, constants.CachePrefixPeakHours, "a", load)
	rc.Invalidate()
	v, err := Cached(rc, constants.CachePrefixPeakHours, "a", load)

	require.NoError(t, err)
	assert.Equal(t, 2, v.Value)
}

func TestCached_ErrorsAreNotStored(t *testing.T) {
	rc := NewResultCache(NewCacheService(time.Minute, time.Minute), time.Minute)
	calls := 0
	load := func() (*payload, error) {
		calls++
		return nil, errors.New("boom")
	}

	_, err := Cached(rc, constants.CachePrefixCapacity, "s1", load)
	assert.Error(t, err)
	_, err = Cached(rc, constants.CachePrefixCapacity, "s1", load)
	assert.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestCached_NoopBackend(t *testing.T) {
	rc := NewResultCache(nil, time.Minute)
	calls := 0
	load := func() (*payload, error) {
		calls++
		return &payload{}, nil
	}
	_, _ = Cached(rc, constants.CachePrefixSeasonal, 1, load)
	_, _ = Cached(rc, constants.CachePrefixSeasonal, 1, load)
	assert.Equal(t, 2, calls)
}

func TestErrorCode(t *testing.T) {
	err := NewCoreError(constants.ErrCodeNoData, "", nil)
	wrapped := errors.Join(errors.New("ctx"), err)

	assert.Equal(t, constants.ErrCodeNoData, ErrorCode(wrapped))
	assert.True(t, IsCode(wrapped, constants.ErrCodeNoData))
	assert.Equal(t, "", ErrorCode(errors.New("plain")))
	assert.Equal(t, constants.GetErrorMessage(constants.ErrCodeNoData), err.Message)
}

func TestNewCacheBackend(t *testing.T) {
	backend, err := NewCacheBackend(context.Background(), &config.Config{CacheBackend: config.CacheBackendMemory, CacheTTL: time.Minute})
	require.NoError(t, err)
	assert.IsType(t, &CacheService{}, backend)

	backend, err = NewCacheBackend(context.Background(), &config.Config{CacheBackend: config.CacheBackendNone})
	require.NoError(t, err)
	assert.IsType(t, NoopCache{}, backend)

	_, err = NewCacheBackend(context.Background(), &config.Config{CacheBackend: "memcached"})
	assert.Error(t, err)
}

func TestCacheService_CloseFlushes(t *testing.T) {
	cs := NewCacheService(time.Minute, time.Minute)
	cs.Set("a", []byte("1"), time.Minute)
	cs.Set("b", []byte("2"), time.Minute)
	assert.Equal(t, 2, cs.ItemCount())

	require.NoError(t, cs.Close())
	assert.Equal(t, 0, cs.ItemCount())
}
