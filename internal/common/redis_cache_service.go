package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"airspace-analytics/sectorcap/internal/logging"

	"github.com/redis/go-redis/v9"
)

// RedisOptions selects the Redis server used as shared result cache
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// Namespace separates the keys of one process lifetime from earlier ones
	Namespace string
}

// RedisCacheService implements CacheInterface using Redis
type RedisCacheService struct {
	client *redis.Client
	prefix string
}

// Ensure RedisCacheService implements CacheInterface
var _ CacheInterface = (*RedisCacheService)(nil)

// NewRedisCacheService creates a new Redis-based cache service and checks the connection
func NewRedisCacheService(ctx context.Context, opts RedisOptions) (*RedisCacheService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logging.Info("Connected to Redis result cache", "addr", opts.Addr, "db", opts.DB)
	return NewRedisCacheServiceWithClient(client, opts.Namespace), nil
}

// NewRedisCacheServiceWithClient wraps an existing client
func NewRedisCacheServiceWithClient(client *redis.Client, namespace string) *RedisCacheService {
	prefix := "sectorcap:"
	if namespace != "" {
		prefix += namespace + ":"
	}
	return &RedisCacheService{client: client, prefix: prefix}
}

// Set stores a value in Redis with the given key and duration
func (r *RedisCacheService) Set(key string, value []byte, duration time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	// Errors are logged, never fatal: a cache miss is always recoverable
	if err := r.client.Set(ctx, r.prefix+key, value, duration).Err(); err != nil {
		logging.Warn("Redis cache set failed", "key", key, "error", err.Error())
	}
}

// Get retrieves a value from Redis by key
func (r *RedisCacheService) Get(key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		logging.Warn("Redis cache get failed", "key", key, "error", err.Error())
		return nil, false
	}
	return data, true
}

// Delete removes a value from Redis by key
func (r *RedisCacheService) Delete(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		logging.Warn("Redis cache delete failed", "key", key, "error", err.Error())
	}
}

// Close closes the Redis connection
func (r *RedisCacheService) Close() error {
	return r.client.Close()
}
