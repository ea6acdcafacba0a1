package translate

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"portfolio-cms/internal/logger"

	"github.com/redis/go-redis/v9"
)

// Store is the key/value backend of the translation cache. Get returns "" and
// no error on a miss.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// RedisStore keeps cached translations in Redis.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore connects to the Redis server at redisURL.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisStore{rdb: rdb}, nil
}

// Get returns the cached value for key.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

// Set stores value under key with an expiration.
func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

// Cached decorates a Provider with a translation cache. Cache failures are
// logged and never fail a translation.
type Cached struct {
	next  Provider
	store Store
	ttl   time.Duration
	log   logger.Logger
}

// NewCached wraps next with store.
func NewCached(next Provider, store Store, ttl time.Duration, log logger.Logger) *Cached {
	return &Cached{next: next, store: store, ttl: ttl, log: log}
}

// IsConfigured reports whether the wrapped provider is configured.
func (c *Cached) IsConfigured() bool {
	return c.next.IsConfigured()
}

// TranslateText serves cached targets from the store and forwards the rest.
func (c *Cached) TranslateText(ctx context.Context, text, source string, targets []string) (map[string]string, error) {
	out := make(map[string]string, len(targets))
	var misses []string
	for _, target := range targets {
		v, err := c.store.Get(ctx, cacheKey(text, source, target))
		if err != nil {
			c.log.Warn(fmt.Sprintf("Translation cache read failed: %v", err))
		}
		if v != "" {
			out[target] = v
			continue
		}
		misses = append(misses, target)
	}
	if len(misses) == 0 {
		return out, nil
	}

	fresh, err := c.next.TranslateText(ctx, text, source, misses)
	if err != nil {
		if len(out) > 0 {
			return out, nil
		}
		return nil, err
	}
	for target, v := range fresh {
		out[target] = v
		if err := c.store.Set(ctx, cacheKey(text, source, target), v, c.ttl); err != nil {
			c.log.Warn(fmt.Sprintf("Translation cache write failed: %v", err))
		}
	}
	return out, nil
}

func cacheKey(text, source, target string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("translation:%s:%s:%x", source, target, sum[:16])
}
