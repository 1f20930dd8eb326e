package data

import (
	"context"
	"time"

	"moderation/internal/conf"
	pkgredis "moderation/internal/pkg/redis"

	"github.com/go-kratos/kratos/v2/log"
)

// NewRedisCache creates a new Redis cache from configuration. An unreachable
// server is logged but not fatal: the cache is advisory and reads as a miss.
func NewRedisCache(c *conf.Data, logger log.Logger) (pkgredis.Cache, func(), error) {
	helper := log.NewHelper(log.With(logger, "module", "data/redis"))

	cache, err := pkgredis.New(c.Redis.URL, pkgredis.Options{
		ReadTimeout:  c.Redis.ReadTimeout.AsDuration(),
		WriteTimeout: c.Redis.WriteTimeout.AsDuration(),
	})
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := cache.Ping(ctx); err != nil {
		helper.Warnf("redis not reachable, running without cache until it recovers: %v", err)
	} else {
		helper.Info("connected to redis")
	}

	cleanup := func() {
		helper.Info("closing Redis connection")
		cache.Close()
	}

	return cache, cleanup, nil
}
