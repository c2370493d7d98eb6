// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/PoojithGuntaka/CivicConnect/auth"
	"github.com/PoojithGuntaka/CivicConnect/middleware"
	"github.com/PoojithGuntaka/CivicConnect/models"
)

// AuthHandler signs demo users in. Nothing is persisted: the session token
// carries the whole user.
type AuthHandler struct {
	salt string
}

func NewAuthHandler(salt string) *AuthHandler {
	return &AuthHandler{salt: salt}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	h.signIn(w, auth.ModeLogin, req.Email, req.Name, "")
}

// Signup handles POST /auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	h.signIn(w, auth.ModeSignup, req.Email, req.Name, req.Role)
}

func (h *AuthHandler) signIn(w http.ResponseWriter, mode auth.Mode, email, name, role string) {
	user, err := auth.NewUser(mode, email, name, role)
	if errors.Is(err, auth.ErrInvalidEmail) || errors.Is(err, auth.ErrInvalidRole) {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to create user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	token, err := auth.IssueToken(user, h.salt)
	if err != nil {
		slog.Error("failed to issue session token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	slog.Info("user signed in", "user_id", user.ID, "role", user.Role)

	middleware.JSONResponse(w, http.StatusOK, models.AuthResponse{
		User:         user,
		SessionToken: token,
	})
}

// Me handles GET /auth/me. Must be wrapped in middleware.RequireSession.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Not signed in")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, user)
}
