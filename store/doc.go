// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store holds the in-memory issue and poll collections.

Each collection has a single owner exposing controlled mutation entry points;
callers only ever receive copies.

# Issues

	issues := store.NewIssueStore(data.Issues)
	issue := issues.SubmitIssue(models.NewIssue{Title: "...", Description: "..."})

SubmitIssue assigns a UUID, status "submitted", zero upvotes and today's date,
and prepends the issue so the collection stays newest first.

# Polls

	polls := store.NewPollStore(data.Polls)
	switch polls.CastVote("p1", "o2") {
	case store.VoteApplied:
	case store.VotePollNotFound, store.VoteOptionNotFound:
	}

CastVote increments exactly one option and the poll total together. Unknown
ids leave every poll unchanged and are reported through VoteOutcome.
*/
package store
