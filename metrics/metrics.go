// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "civicconnect"

// Integration names
const (
	IntegrationChat      = "chat"
	IntegrationSentiment = "sentiment"
)

// Integration results
const (
	ResultLive     = "live"
	ResultFallback = "fallback"
)

// Metrics holds the service's collectors on a private registry.
// All methods are safe to call on a nil *Metrics.
type Metrics struct {
	registry            *prometheus.Registry
	issuesSubmitted     prometheus.Counter
	votes               *prometheus.CounterVec
	integrationCalls    *prometheus.CounterVec
	integrationDuration *prometheus.HistogramVec
	sentimentCache      *prometheus.CounterVec
}

// New creates and registers all collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		issuesSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "issues_submitted_total",
			Help:      "Citizen issue reports accepted.",
		}),
		votes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_votes_total",
			Help:      "Poll votes by outcome.",
		}, []string{"outcome"}),
		integrationCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "integration_calls_total",
			Help:      "Model integration calls by result and error kind.",
		}, []string{"integration", "result", "error_kind"}),
		integrationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "integration_duration_seconds",
			Help:      "Model integration call latency.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"integration"}),
		sentimentCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sentiment_cache_lookups_total",
			Help:      "Sentiment report cache lookups by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.issuesSubmitted,
		m.votes,
		m.integrationCalls,
		m.integrationDuration,
		m.sentimentCache,
	)

	return m
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) IssueSubmitted() {
	if m == nil {
		return
	}
	m.issuesSubmitted.Inc()
}

func (m *Metrics) VoteCast(outcome string) {
	if m == nil {
		return
	}
	m.votes.WithLabelValues(outcome).Inc()
}

// IntegrationCall records one chat or sentiment call.
func (m *Metrics) IntegrationCall(integration, result, errorKind string, d time.Duration) {
	if m == nil {
		return
	}
	m.integrationCalls.WithLabelValues(integration, result, errorKind).Inc()
	m.integrationDuration.WithLabelValues(integration).Observe(d.Seconds())
}

// SentimentCacheLookup records a cache hit or miss.
func (m *Metrics) SentimentCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.sentimentCache.WithLabelValues(result).Inc()
}
