package data

import (
	"context"
	"errors"
	"time"

	"moderation/internal/biz"
	"moderation/internal/conf"
	"moderation/internal/pkg/metrics"
	pkgredis "moderation/internal/pkg/redis"

	"github.com/go-kratos/kratos/v2/log"
)

// DefaultCacheOpTimeout bounds a single cache round trip.
const DefaultCacheOpTimeout = 250 * time.Millisecond

type verdictCache struct {
	cache   pkgredis.Cache
	timeout time.Duration
	log     *log.Helper
}

// NewVerdictCache adapts a redis cache to biz.VerdictCache. Errors never
// leave this type.
func NewVerdictCache(cache pkgredis.Cache, c *conf.Data, logger log.Logger) biz.VerdictCache {
	timeout := DefaultCacheOpTimeout
	if c != nil && c.Redis != nil && c.Redis.OpTimeout > 0 {
		timeout = c.Redis.OpTimeout.AsDuration()
	}
	return &verdictCache{
		cache:   cache,
		timeout: timeout,
		log:     log.NewHelper(log.With(logger, "module", "data/verdict_cache")),
	}
}

func (c *verdictCache) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.cache.GetBytes(ctx, key)
	switch {
	case errors.Is(err, pkgredis.Nil):
		metrics.CacheOps.WithLabelValues("get", "miss").Inc()
		return nil, false
	case err != nil:
		metrics.CacheOps.WithLabelValues("get", "error").Inc()
		c.log.WithContext(ctx).Warnf("cache get %q: %v", key, err)
		return nil, false
	}
	metrics.CacheOps.WithLabelValues("get", "hit").Inc()
	return raw, true
}

func (c *verdictCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.cache.SetBytes(ctx, key, value, ttl); err != nil {
		metrics.CacheOps.WithLabelValues("set", "error").Inc()
		c.log.WithContext(ctx).Warnf("cache set %q: %v", key, err)
		return false
	}
	metrics.CacheOps.WithLabelValues("set", "ok").Inc()
	return true
}

func (c *verdictCache) Delete(ctx context.Context, key string) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if _, err := c.cache.Del(ctx, key); err != nil {
		metrics.CacheOps.WithLabelValues("del", "error").Inc()
		c.log.WithContext(ctx).Warnf("cache del %q: %v", key, err)
		return
	}
	metrics.CacheOps.WithLabelValues("del", "ok").Inc()
}

func (c *verdictCache) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.cache.Ping(ctx)
}
