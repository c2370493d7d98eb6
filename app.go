// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"fmt"
	"log/slog"

	"github.com/PoojithGuntaka/CivicConnect/assistant"
	"github.com/PoojithGuntaka/CivicConnect/cliparse"
	"github.com/PoojithGuntaka/CivicConnect/llm"
	"github.com/PoojithGuntaka/CivicConnect/metrics"
	"github.com/PoojithGuntaka/CivicConnect/seed"
	"github.com/PoojithGuntaka/CivicConnect/sentiment"
	"github.com/PoojithGuntaka/CivicConnect/store"

	// Register LLM providers via init()
	_ "github.com/PoojithGuntaka/CivicConnect/llm/providers"
)

// app holds the model-backed components shared by every command.
type app struct {
	metrics   *metrics.Metrics
	assistant *assistant.Assistant
	registry  *assistant.Registry
	analyzer  *sentiment.Analyzer
	loader    *sentiment.Loader
}

// newApp wires both integrations to one model client. A nil cache keeps the
// sentiment report in memory.
func newApp(cfg cliparse.Config, cache sentiment.Cache) *app {
	logger := slog.Default()
	m := metrics.New()

	client := llm.NewClient(llm.Endpoint{
		Provider: cfg.ModelProvider,
		URL:      cfg.ModelBaseURL,
		Model:    cfg.ModelName,
		APIKey:   cfg.APIKey,
	}, llm.WithTimeout(cfg.ModelTimeout), llm.WithLogger(logger))

	a := assistant.New(client, assistant.WithLogger(logger), assistant.WithMetrics(m))
	analyzer := sentiment.New(client, sentiment.WithLogger(logger), sentiment.WithMetrics(m))

	return &app{
		metrics:   m,
		assistant: a,
		registry:  assistant.NewRegistry(a, cfg.MaxConversations),
		analyzer:  analyzer,
		loader:    sentiment.NewLoader(analyzer, cache, logger, m),
	}
}

func loadSeed(cfg cliparse.Config) (*seed.Data, error) {
	data, err := seed.Load(cfg.SeedPath)
	if err != nil {
		return nil, fmt.Errorf("load seed data: %w", err)
	}
	return data, nil
}

func newStores(data *seed.Data) (*store.IssueStore, *store.PollStore) {
	return store.NewIssueStore(data.Issues), store.NewPollStore(data.Polls)
}

// newSentimentCache connects to Redis when REDIS_URL is set.
func newSentimentCache(cfg cliparse.Config) (sentiment.Cache, error) {
	if cfg.RedisURL == "" {
		return sentiment.NewMemoryCache(), nil
	}
	cache, err := sentiment.NewRedisCache(cfg.RedisURL, cfg.SentimentTTL)
	if err != nil {
		return nil, fmt.Errorf("connect sentiment cache: %w", err)
	}
	slog.Info("sentiment cache in redis", "ttl", cfg.SentimentTTL)
	return cache, nil
}
