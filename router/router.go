// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"log/slog"
	"net/http"

	"github.com/PoojithGuntaka/CivicConnect/assistant"
	"github.com/PoojithGuntaka/CivicConnect/cliparse"
	"github.com/PoojithGuntaka/CivicConnect/handlers"
	"github.com/PoojithGuntaka/CivicConnect/metrics"
	"github.com/PoojithGuntaka/CivicConnect/middleware"
	"github.com/PoojithGuntaka/CivicConnect/models"
	"github.com/PoojithGuntaka/CivicConnect/sentiment"
	"github.com/PoojithGuntaka/CivicConnect/store"
)

// Deps are the long-lived components the routes are served from.
type Deps struct {
	Issues    *store.IssueStore
	Polls     *store.PollStore
	Chat      *assistant.Registry
	Sentiment *sentiment.Loader
	Metrics   *metrics.Metrics // nil disables /metrics
	Config    cliparse.Config
}

func NewRouter(deps Deps) *http.ServeMux {
	mux := http.NewServeMux()
	salt := deps.Config.SessionSalt

	// Initialize handlers
	issueHandler := handlers.NewIssueHandler(deps.Issues, deps.Metrics)
	pollHandler := handlers.NewPollHandler(deps.Polls)
	votingHandler := handlers.NewVotingHandler(deps.Polls, deps.Metrics, salt)
	resultsHandler := handlers.NewResultsHandler(deps.Polls)
	authHandler := handlers.NewAuthHandler(salt)
	chatHandler := handlers.NewChatHandler(deps.Chat)
	dashboardHandler := handlers.NewDashboardHandler(deps.Issues, deps.Sentiment)

	official := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireRole(salt, models.RoleOfficial, next))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if deps.Sentiment != nil {
			if err := deps.Sentiment.Ping(r.Context()); err != nil {
				slog.Warn("health check failed", "error", err)
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("sentiment cache unavailable"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if deps.Metrics != nil {
		mux.Handle("GET /metrics", deps.Metrics.Handler())
	}

	// Demo sign-in
	mux.HandleFunc("POST /auth/login", middleware.WithLogging(authHandler.Login))
	mux.HandleFunc("POST /auth/signup", middleware.WithLogging(authHandler.Signup))
	mux.HandleFunc("GET /auth/me", middleware.WithLogging(middleware.RequireSession(salt, authHandler.Me)))

	// Issues (public)
	mux.HandleFunc("GET /issues", middleware.WithLogging(issueHandler.ListIssues))
	mux.HandleFunc("POST /issues", middleware.WithLogging(issueHandler.SubmitIssue))
	mux.HandleFunc("GET /issues/{id}", middleware.WithLogging(issueHandler.GetIssue))

	// Polls (public)
	mux.HandleFunc("GET /polls", middleware.WithLogging(pollHandler.ListPolls))
	mux.HandleFunc("GET /polls/{id}", middleware.WithLogging(pollHandler.GetPoll))
	mux.HandleFunc("POST /polls/{id}/votes", middleware.WithLogging(votingHandler.CastVote))
	mux.HandleFunc("GET /polls/{id}/results", middleware.WithLogging(resultsHandler.GetResults))

	// Assistant chat
	mux.HandleFunc("POST /chat", middleware.WithLogging(chatHandler.StartConversation))
	mux.HandleFunc("GET /chat/{id}", middleware.WithLogging(chatHandler.GetConversation))
	mux.HandleFunc("POST /chat/{id}/messages", middleware.WithLogging(chatHandler.SendMessage))

	// Official dashboard
	mux.HandleFunc("GET /dashboard/stats", official(dashboardHandler.Stats))
	mux.HandleFunc("GET /dashboard/sentiment", official(dashboardHandler.Sentiment))
	mux.HandleFunc("DELETE /dashboard/sentiment", official(dashboardHandler.ClearSentiment))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("CivicConnect API v1"))
	})

	return mux
}
