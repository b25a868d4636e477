package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/pulsedash/pulse-platform/pkg/redis"
)

// ResultCache memoizes computed results keyed by (venueId, rangeToken)
// with an injected TTL. The cache only ever stores whole results, so a
// stale in-flight computation can never be merged into a newer one.
type ResultCache struct {
	redis  redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewResultCache creates a new ResultCache with the given TTL policy
func NewResultCache(redisClient redis.Client, ttl time.Duration, logger *slog.Logger) *ResultCache {
	return &ResultCache{
		redis:  redisClient,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns a memoized result, or nil on a miss. Cache failures are
// treated as misses; the pipeline recomputes rather than erroring.
func (c *ResultCache) Get(ctx context.Context, venueID string, rng RangeToken) *Result {
	key := redis.AnalyticsResultKey(venueID, string(rng))

	raw, err := c.redis.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redis.ErrKeyNotFound) {
			c.logger.Warn("Analytics cache read failed", "key", key, "error", err)
		}
		return nil
	}

	var result Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		c.logger.Warn("Failed to decode cached analytics result", "key", key, "error", err)
		return nil
	}

	c.logger.Debug("Analytics cache hit", "key", key)
	return &result
}

// Put stores a result under its (venueId, rangeToken) key. Failures are
// logged and swallowed; caching is an optimization, not a dependency.
func (c *ResultCache) Put(ctx context.Context, venueID string, rng RangeToken, result *Result) {
	if result == nil {
		return
	}

	key := redis.AnalyticsResultKey(venueID, string(rng))

	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn("Failed to encode analytics result for cache", "key", key, "error", err)
		return
	}

	if err := c.redis.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Analytics cache write failed", "key", key, "error", err)
		return
	}

	c.logger.Debug("Analytics cache store", "key", key, "ttl", c.ttl)
}
