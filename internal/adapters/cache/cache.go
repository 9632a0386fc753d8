// Package cache opens the cache backend selected in configuration.
package cache

import (
	"context"
	"fmt"

	redisadapter "github.com/samirrijal/forestgeo/internal/adapters/redis"
	"github.com/samirrijal/forestgeo/internal/adapters/valkey"
	"github.com/samirrijal/forestgeo/internal/core/ports"
	"github.com/samirrijal/forestgeo/internal/pkg/config"
)

// Backend is a connected cache.
type Backend interface {
	ports.CacheService
	Ping(ctx context.Context) error
	Close()
}

// Open connects the driver named by cfg.Driver. It returns nil, nil for
// the "none" driver.
func Open(ctx context.Context, cfg config.CacheConfig) (Backend, error) {
	switch cfg.Driver {
	case config.CacheValkey:
		c, err := valkey.New(valkey.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			LocalTTL: cfg.LocalTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("valkey: %w", err)
		}
		return c, nil
	case config.CacheRedis:
		c, err := redisadapter.New(ctx, cfg.Addr, cfg.Password, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		return c, nil
	case config.CacheNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}
