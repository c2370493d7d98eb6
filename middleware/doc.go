// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

	mux.HandleFunc("GET /issues", middleware.WithLogging(handler))

Logs request start at debug level and completion (status, duration_ms) at
info level through the default slog logger.

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, DELETE, OPTIONS with headers Content-Type and
X-Session-Token.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

	var req models.SubmitIssueRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

Bodies are limited to 1MB.

# Sessions

	mux.HandleFunc("GET /auth/me", middleware.RequireSession(salt, h.Me))
	mux.HandleFunc("GET /dashboard/stats", middleware.RequireRole(salt, models.RoleOfficial, h.Stats))

A missing or invalid X-Session-Token is 401; a valid token with the wrong
role is 403. The user is available to the handler via UserFromContext.

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Checks X-Forwarded-For, then X-Real-IP, then RemoteAddr.
*/
package middleware
