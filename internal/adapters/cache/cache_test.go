package cache_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samirrijal/forestgeo/internal/adapters/cache"
	"github.com/samirrijal/forestgeo/internal/pkg/config"
)

func TestOpen_None(t *testing.T) {
	c, err := cache.Open(context.Background(), config.CacheConfig{Driver: config.CacheNone})
	require.NoError(t, err)
	require.Nil(t, c)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := cache.Open(context.Background(), config.CacheConfig{Driver: "memcached"})
	require.ErrorContains(t, err, "memcached")
}
