package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/bedriftsgrafen/bedriftsgrafen-api/pkg/metrics"
)

// Cache is the request-caching layer in front of the upstream registry:
// callers hand it a key and a fetch function and get the cached body or
// the fetch result. Redis failures degrade to fetch-only; the cache is
// an optimization, never a correctness layer.
type Cache struct {
	client  *redis.Client
	logger  *zerolog.Logger
	metrics *metrics.Metrics
}

// Config holds cache connection configuration.
type Config struct {
	URL          string
	PoolSize     int
	MinIdleConns int
}

// New connects to redis and returns the cache. An empty URL yields a
// pass-through cache that always fetches.
func New(cfg Config, logger *zerolog.Logger, m *metrics.Metrics) (*Cache, error) {
	if cfg.URL == "" {
		return &Cache{logger: logger, metrics: m}, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Cache{client: client, logger: logger, metrics: m}, nil
}

// Key builds a cache key for an endpoint and its derived parameters.
func Key(endpoint string, params url.Values) string {
	sum := sha256.Sum256([]byte(params.Encode()))
	return "bedriftsgrafen:" + endpoint + ":" + hex.EncodeToString(sum[:])
}

// GetOrFetch returns the cached body for key, or runs fetch, stores the
// result for ttl and returns it. The endpoint label is used for
// hit/miss metrics only.
func (c *Cache) GetOrFetch(ctx context.Context, endpoint, key string, ttl time.Duration, fetch func(context.Context) ([]byte, error)) ([]byte, error) {
	if c.client != nil {
		body, err := c.client.Get(ctx, key).Bytes()
		if err == nil {
			if c.metrics != nil {
				c.metrics.CacheHits.WithLabelValues(endpoint).Inc()
			}
			return body, nil
		}
		if err != redis.Nil && c.logger != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed, falling through to fetch")
		}
	}
	if c.metrics != nil {
		c.metrics.CacheMisses.WithLabelValues(endpoint).Inc()
	}

	body, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	if c.client != nil {
		if err := c.client.Set(ctx, key, body, ttl).Err(); err != nil && c.logger != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return body, nil
}

// Close releases the redis connection.
func (c *Cache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
