// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/PoojithGuntaka/CivicConnect/middleware"
	"github.com/PoojithGuntaka/CivicConnect/store"
)

type ResultsHandler struct {
	polls *store.PollStore
}

func NewResultsHandler(polls *store.PollStore) *ResultsHandler {
	return &ResultsHandler{polls: polls}
}

// GetResults handles GET /polls/{id}/results
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	results, ok := h.polls.Results(pollID)
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}
