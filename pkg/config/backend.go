package config

import (
	"context"

	"github.com/timothyvelberg/ringmenu/pkg/cache"
)

// OpenCache constructs the provider cache the configuration selects.
// Callers own the returned cache and must Close it.
func OpenCache(ctx context.Context, cfg CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "file":
		return cache.NewFileCache(cfg.Dir)
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	default:
		return cache.NewMemoryCache(cfg.Entries)
	}
}
