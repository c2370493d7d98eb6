// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/PoojithGuntaka/CivicConnect/auth"
	"github.com/PoojithGuntaka/CivicConnect/metrics"
	"github.com/PoojithGuntaka/CivicConnect/middleware"
	"github.com/PoojithGuntaka/CivicConnect/models"
	"github.com/PoojithGuntaka/CivicConnect/store"
)

type VotingHandler struct {
	polls   *store.PollStore
	metrics *metrics.Metrics
	salt    string
}

// NewVotingHandler creates the vote handler. salt keys the voter IP hash
// written to the vote log.
func NewVotingHandler(polls *store.PollStore, m *metrics.Metrics, salt string) *VotingHandler {
	return &VotingHandler{polls: polls, metrics: m, salt: salt}
}

// CastVote handles POST /polls/{id}/votes
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	req.OptionID = strings.TrimSpace(req.OptionID)
	if req.OptionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "option_id is required")
		return
	}

	outcome := h.polls.CastVote(pollID, req.OptionID)
	h.metrics.VoteCast(outcome.String())

	switch outcome {
	case store.VotePollNotFound:
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	case store.VoteOptionNotFound:
		middleware.ErrorResponse(w, http.StatusNotFound, "Option not found")
		return
	}

	// No per-voter dedupe; the hash only correlates log lines.
	voter := auth.HashIP(middleware.GetClientIP(r), h.salt)
	slog.Info("vote cast", "poll_id", pollID, "option_id", req.OptionID, "voter", voter)

	poll, ok := h.polls.Poll(pollID)
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CastVoteResponse{
		Outcome: outcome.String(),
		Poll:    poll,
	})
}
