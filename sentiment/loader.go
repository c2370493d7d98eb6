// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sentiment

import (
	"context"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/PoojithGuntaka/CivicConnect/metrics"
	"github.com/PoojithGuntaka/CivicConnect/models"
)

// Loader serves the dashboard report: cached when available, otherwise one
// shared analysis for all concurrent callers. Only live reports are cached,
// so a fallback is retried on the next load.
type Loader struct {
	analyzer *Analyzer
	cache    Cache
	group    singleflight.Group
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewLoader creates a Loader. A nil cache uses a MemoryCache.
func NewLoader(analyzer *Analyzer, cache Cache, logger *slog.Logger, m *metrics.Metrics) *Loader {
	if cache == nil {
		cache = NewMemoryCache()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		analyzer: analyzer,
		cache:    cache,
		logger:   logger,
		metrics:  m,
	}
}

// Cached returns the cached report, if any. Cache errors count as a miss.
func (l *Loader) Cached(ctx context.Context) (models.SentimentReport, bool) {
	report, ok, err := l.cache.Get(ctx)
	if err != nil {
		l.logger.Warn("sentiment cache read failed", "error", err)
		return models.SentimentReport{}, false
	}
	return report, ok
}

// Load returns the cached report or analyzes issues. The bool reports
// whether the result came from the cache.
func (l *Loader) Load(ctx context.Context, issues []models.Issue) (models.SentimentReport, bool) {
	if report, ok := l.Cached(ctx); ok {
		l.metrics.SentimentCacheLookup(true)
		return report, true
	}
	l.metrics.SentimentCacheLookup(false)

	// The shared call outlives any single caller's cancellation.
	shared := context.WithoutCancel(ctx)
	v, _, _ := l.group.Do("report", func() (any, error) {
		if report, ok := l.Cached(shared); ok {
			return report, nil
		}
		report := l.analyzer.Analyze(shared, issues)
		if report.Source == models.SourceLive {
			if err := l.cache.Set(shared, report); err != nil {
				l.logger.Warn("sentiment cache write failed", "error", err)
			}
		}
		return report, nil
	})

	return copyReport(v.(models.SentimentReport)), false
}

// Invalidate drops the cached report so the next Load analyzes again.
func (l *Loader) Invalidate(ctx context.Context) error {
	return l.cache.Clear(ctx)
}

// Ping checks the cache backend when it has one to check.
func (l *Loader) Ping(ctx context.Context) error {
	if p, ok := l.cache.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}
