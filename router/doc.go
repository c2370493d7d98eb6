// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the CivicConnect API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(router.Deps{
		Issues:    issueStore,
		Polls:     pollStore,
		Chat:      registry,
		Sentiment: loader,
		Metrics:   m,
		Config:    cfg,
	})

# Endpoints

Health and metrics:

	GET /health
	GET /metrics - Prometheus exposition (when Metrics is set)

Demo sign-in:

	POST /auth/login  - Role from the email ("admin" means official)
	POST /auth/signup - Role as requested, citizen by default
	GET  /auth/me     - Resolve X-Session-Token

Issues and polls (public):

	GET  /issues              - Newest first, optional ?limit
	POST /issues              - Report an issue
	GET  /issues/{id}         - One issue
	GET  /polls               - All polls
	GET  /polls/{id}          - One poll
	POST /polls/{id}/votes    - Cast a vote
	GET  /polls/{id}/results  - Share percentages

Assistant chat:

	POST /chat               - Start a conversation
	GET  /chat/{id}          - Transcript
	POST /chat/{id}/messages - Ask a question

Official dashboard (X-Session-Token with the official role):

	GET    /dashboard/stats     - Counts and recent issues
	GET    /dashboard/sentiment - Cached or fresh sentiment report
	DELETE /dashboard/sentiment - Drop the cached report

Every API route is wrapped in middleware.WithLogging. CORS is applied by
the caller around the whole mux.
*/
package router
