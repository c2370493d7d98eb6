// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the CivicConnect API.

# Handler Types

Each handler is a struct over the stores and integrations it needs:

  - IssueHandler: Citizen issue reports (list, view, submit)
  - PollHandler: Community polls
  - VotingHandler: Casting poll votes
  - ResultsHandler: Poll share percentages and the leading option
  - AuthHandler: Demo sign-in and session lookup
  - ChatHandler: Assistant conversations
  - DashboardHandler: Official statistics and the sentiment report

Handlers are created via constructor functions:

	issueHandler := handlers.NewIssueHandler(issueStore, m)

# Issues

	GET  /issues?limit=N → ListIssues (newest first)
	GET  /issues/{id}    → GetIssue
	POST /issues         → SubmitIssue (title and description required)

Issues are returned as views carrying a relative age ("3 days ago",
"today"). A report without a category is filed under Infrastructure and one
without a location is placed at the center of the city plane.

# Polls and Voting

	GET  /polls               → ListPolls
	GET  /polls/{id}          → GetPoll
	POST /polls/{id}/votes    → CastVote
	GET  /polls/{id}/results  → GetResults

A vote for an unknown poll or option is rejected with 404 and changes
nothing. Votes are not deduplicated per voter.

# Chat

	POST /chat               → StartConversation (greeting only)
	GET  /chat/{id}          → GetConversation
	POST /chat/{id}/messages → SendMessage

Model failures are not errors at this layer: the bot message carries the
fallback text and is_error. A second message sent while the first is being
answered is refused with 409.

# Official Dashboard

	GET    /dashboard/stats     → Stats
	GET    /dashboard/sentiment → Sentiment
	DELETE /dashboard/sentiment → ClearSentiment

Dashboard routes require a session token with the official role
(X-Session-Token). The sentiment report is analyzed once and cached; only
clearing it forces a new analysis.
*/
package handlers
