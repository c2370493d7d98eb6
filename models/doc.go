// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - Issue: citizen report with status lifecycle submitted → in-progress → resolved
  - Location: point on the abstract 0-100 city plane
  - Poll / PollOption: multiple-choice consultation with running totals
  - User: demo identity; Role only gates the official dashboard
  - ChatMessage: one turn of an assistant conversation
  - SentimentReport: structured summary of constituent sentiment

# Request Types

  - SubmitIssueRequest: title, description, category, location
  - CastVoteRequest: option_id
  - LoginRequest / SignupRequest: demo sign-in
  - SendMessageRequest: text

# Response Types

  - IssueView: issue plus reported_ago
  - CastVoteResponse: outcome, poll
  - AuthResponse: user, session_token
  - ConversationResponse / SendMessageResponse: chat transcript pieces
  - DashboardStatsResponse: stats, recent_issues
  - SentimentResponse: report, cached
  - ErrorResponse: error, message

# Constants

Issue status:

	StatusSubmitted  = "submitted"
	StatusInProgress = "in-progress"
	StatusResolved   = "resolved"

Roles:

	RoleCitizen  = "citizen"
	RoleOfficial = "official"

Report source:

	SourceLive     = "live"
	SourceFallback = "fallback"
*/
package models
