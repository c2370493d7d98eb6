// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/PoojithGuntaka/CivicConnect/middleware"
	"github.com/PoojithGuntaka/CivicConnect/models"
	"github.com/PoojithGuntaka/CivicConnect/sentiment"
	"github.com/PoojithGuntaka/CivicConnect/store"
)

// recentIssueCount is how many issues the official dashboard lists.
const recentIssueCount = 5

// DashboardHandler serves the official dashboard. Routes must be wrapped in
// middleware.RequireRole(..., models.RoleOfficial, ...).
type DashboardHandler struct {
	issues *store.IssueStore
	loader *sentiment.Loader
	now    func() time.Time
}

func NewDashboardHandler(issues *store.IssueStore, loader *sentiment.Loader) *DashboardHandler {
	return &DashboardHandler{issues: issues, loader: loader, now: time.Now}
}

// Stats handles GET /dashboard/stats
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.DashboardStatsResponse{
		Stats:        h.issues.Stats(),
		RecentIssues: issueViews(h.issues.Recent(recentIssueCount), h.now()),
	})
}

// Sentiment handles GET /dashboard/sentiment. With no issues there is
// nothing to analyze and the report is null. A cached report is returned
// as-is even when issues were added since; DELETE forces a fresh one.
func (h *DashboardHandler) Sentiment(w http.ResponseWriter, r *http.Request) {
	issues := h.issues.Issues()
	if len(issues) == 0 {
		middleware.JSONResponse(w, http.StatusOK, models.SentimentResponse{})
		return
	}

	report, cached := h.loader.Load(r.Context(), issues)

	middleware.JSONResponse(w, http.StatusOK, models.SentimentResponse{
		Report: &report,
		Cached: cached,
	})
}

// ClearSentiment handles DELETE /dashboard/sentiment
func (h *DashboardHandler) ClearSentiment(w http.ResponseWriter, r *http.Request) {
	if err := h.loader.Invalidate(r.Context()); err != nil {
		slog.Error("failed to clear sentiment cache", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to clear report")
		return
	}

	slog.Info("sentiment report cleared")
	w.WriteHeader(http.StatusNoContent)
}
