// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sentiment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PoojithGuntaka/CivicConnect/models"
)

func TestLoader_CachesLiveReport(t *testing.T) {
	gen := &fakeGenerator{text: validReply}
	loader := NewLoader(New(gen), nil, nil, nil)
	ctx := context.Background()

	first, cached := loader.Load(ctx, testIssues)
	assert.False(t, cached)
	assert.Equal(t, models.SourceLive, first.Source)

	second, cached := loader.Load(ctx, testIssues)
	assert.True(t, cached)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), gen.calls.Load())
}

func TestLoader_DoesNotCacheFallback(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("down")}
	loader := NewLoader(New(gen), nil, nil, nil)
	ctx := context.Background()

	report, cached := loader.Load(ctx, testIssues)
	assert.False(t, cached)
	assert.Equal(t, models.SourceFallback, report.Source)

	_, ok := loader.Cached(ctx)
	assert.False(t, ok)

	loader.Load(ctx, testIssues)
	assert.Equal(t, int32(2), gen.calls.Load())
}

func TestLoader_Invalidate(t *testing.T) {
	gen := &fakeGenerator{text: validReply}
	loader := NewLoader(New(gen), NewMemoryCache(), nil, nil)
	ctx := context.Background()

	loader.Load(ctx, testIssues)
	require.NoError(t, loader.Invalidate(ctx))

	_, cached := loader.Load(ctx, testIssues)
	assert.False(t, cached)
	assert.Equal(t, int32(2), gen.calls.Load())
}

func TestLoader_CollapsesConcurrentLoads(t *testing.T) {
	gen := &fakeGenerator{text: validReply, release: make(chan struct{})}
	loader := NewLoader(New(gen), nil, nil, nil)

	var wg sync.WaitGroup
	results := make([]models.SentimentReport, 5)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = loader.Load(context.Background(), testIssues)
		}()
	}

	require.Eventually(t, func() bool { return gen.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	// Give the other callers time to join the in-flight analysis.
	time.Sleep(50 * time.Millisecond)
	close(gen.release)
	wg.Wait()

	assert.Equal(t, int32(1), gen.calls.Load())
	for _, r := range results {
		assert.Equal(t, models.SourceLive, r.Source)
	}
}

func TestLoader_CanceledCallerStillGetsReport(t *testing.T) {
	gen := &fakeGenerator{text: validReply}
	loader := NewLoader(New(gen), nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, _ := loader.Load(ctx, testIssues)
	assert.Equal(t, models.SourceLive, report.Source)
}

func TestLoader_Ping(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, NewLoader(New(nil), nil, nil, nil).Ping(ctx))

	cache, s := setupRedisCache(t, 0)
	loader := NewLoader(New(nil), cache, nil, nil)
	require.NoError(t, loader.Ping(ctx))

	s.Close()
	assert.Error(t, loader.Ping(ctx))
}
