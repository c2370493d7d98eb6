// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/PoojithGuntaka/CivicConnect/metrics"
	"github.com/PoojithGuntaka/CivicConnect/middleware"
	"github.com/PoojithGuntaka/CivicConnect/models"
	"github.com/PoojithGuntaka/CivicConnect/store"
)

// Report form defaults applied when the citizen leaves a field unset.
var defaultLocation = models.Location{Lat: 50, Lng: 50}

const (
	maxTitleLen       = 200
	maxDescriptionLen = 5000
)

type IssueHandler struct {
	issues  *store.IssueStore
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewIssueHandler(issues *store.IssueStore, m *metrics.Metrics) *IssueHandler {
	return &IssueHandler{issues: issues, metrics: m, now: time.Now}
}

// ListIssues handles GET /issues?limit=N
func (h *IssueHandler) ListIssues(w http.ResponseWriter, r *http.Request) {
	limit := -1
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	middleware.JSONResponse(w, http.StatusOK, issueViews(h.issues.Recent(limit), h.now()))
}

// GetIssue handles GET /issues/{id}
func (h *IssueHandler) GetIssue(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	issue, ok := h.issues.Issue(id)
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Issue not found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, issueView(issue, h.now()))
}

// SubmitIssue handles POST /issues
func (h *IssueHandler) SubmitIssue(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitIssueRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)

	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Description == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "description is required")
		return
	}
	if len(req.Title) > maxTitleLen || len(req.Description) > maxDescriptionLen {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title or description is too long")
		return
	}

	if req.Category == "" {
		req.Category = models.CategoryInfrastructure
	}
	loc := defaultLocation
	if req.Location != nil {
		if !onPlane(*req.Location) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "location must lie within 0-100 on both axes")
			return
		}
		loc = *req.Location
	}

	issue := h.issues.SubmitIssue(models.NewIssue{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    &loc,
	})
	h.metrics.IssueSubmitted()

	slog.Info("issue submitted", "issue_id", issue.ID, "category", issue.Category)

	middleware.JSONResponse(w, http.StatusCreated, issueView(issue, h.now()))
}

func onPlane(l models.Location) bool {
	return l.Lat >= 0 && l.Lat <= 100 && l.Lng >= 0 && l.Lng <= 100
}

// issueView adds a relative "reported" age. Same-day issues read "today".
func issueView(issue models.Issue, now time.Time) models.IssueView {
	v := models.IssueView{Issue: issue}

	day, err := time.ParseInLocation(store.DateLayout, issue.Date, now.Location())
	if err != nil {
		return v
	}
	y1, m1, d1 := day.Date()
	y2, m2, d2 := now.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		v.ReportedAgo = "today"
	} else {
		v.ReportedAgo = humanize.RelTime(day, now, "ago", "from now")
	}
	return v
}

func issueViews(issues []models.Issue, now time.Time) []models.IssueView {
	views := make([]models.IssueView, len(issues))
	for i, issue := range issues {
		views[i] = issueView(issue, now)
	}
	return views
}
