// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sentiment

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PoojithGuntaka/CivicConnect/models"
)

func sampleReport() models.SentimentReport {
	return models.SentimentReport{
		OverallSentiment: models.SentimentNegative,
		Score:            40,
		KeyThemes:        []string{"Roads", "Noise", "Trash"},
		Summary:          "Mixed.",
		Source:           models.SourceLive,
	}
}

func setupRedisCache(t *testing.T, ttl time.Duration) (*RedisCache, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	cache, err := NewRedisCache("redis://"+s.Addr(), ttl)
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache, s
}

func TestCaches(t *testing.T) {
	redisCache, _ := setupRedisCache(t, 0)

	caches := map[string]Cache{
		"memory": NewMemoryCache(),
		"redis":  redisCache,
	}

	for name, cache := range caches {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, ok, err := cache.Get(ctx)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, cache.Set(ctx, sampleReport()))

			got, ok, err := cache.Get(ctx)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, sampleReport(), got)

			require.NoError(t, cache.Clear(ctx))
			_, ok, err = cache.Get(ctx)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestMemoryCache_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()

	report := sampleReport()
	require.NoError(t, cache.Set(ctx, report))
	report.KeyThemes[0] = "mutated"

	got, _, _ := cache.Get(ctx)
	assert.Equal(t, "Roads", got.KeyThemes[0])

	got.KeyThemes[1] = "mutated"
	again, _, _ := cache.Get(ctx)
	assert.Equal(t, "Noise", again.KeyThemes[1])
}

func TestRedisCache_KeyAndTTL(t *testing.T) {
	cache, s := setupRedisCache(t, time.Hour)
	require.NoError(t, cache.Set(context.Background(), sampleReport()))

	assert.True(t, s.Exists(DefaultCacheKey))
	assert.Equal(t, time.Hour, s.TTL(DefaultCacheKey))

	s.FastForward(2 * time.Hour)
	_, ok, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_CorruptValue(t *testing.T) {
	cache, s := setupRedisCache(t, 0)
	require.NoError(t, s.Set(DefaultCacheKey, "not json"))

	_, ok, err := cache.Get(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNewRedisCache_Errors(t *testing.T) {
	_, err := NewRedisCache("not-a-url", 0)
	assert.Error(t, err)

	s := miniredis.RunT(t)
	addr := s.Addr()
	s.Close()
	_, err = NewRedisCache("redis://"+addr, 0)
	assert.Error(t, err)
}
