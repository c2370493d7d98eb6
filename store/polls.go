// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"math"
	"sync"

	"github.com/PoojithGuntaka/CivicConnect/models"
)

// VoteOutcome reports what CastVote did.
type VoteOutcome int

const (
	VoteApplied VoteOutcome = iota
	VotePollNotFound
	VoteOptionNotFound
)

func (o VoteOutcome) String() string {
	switch o {
	case VoteApplied:
		return "applied"
	case VotePollNotFound:
		return "poll_not_found"
	case VoteOptionNotFound:
		return "option_not_found"
	default:
		return "unknown"
	}
}

// PollStore owns the poll collection. CastVote is its only mutation.
type PollStore struct {
	mu    sync.RWMutex
	polls []models.Poll
}

// NewPollStore creates a store seeded with a copy of initial.
func NewPollStore(initial []models.Poll) *PollStore {
	s := &PollStore{polls: make([]models.Poll, 0, len(initial))}
	for _, poll := range initial {
		s.polls = append(s.polls, copyPoll(poll))
	}
	return s
}

// CastVote adds one vote to optionID in pollID. The option count and the
// poll total change together under the write lock, so TotalVotes always
// equals the sum of option votes. Unknown poll or option ids change nothing.
// There is no per-voter tracking: every call is one more vote.
func (s *PollStore) CastVote(pollID, optionID string) VoteOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(pollID)
	if p == nil {
		return VotePollNotFound
	}
	for i := range p.Options {
		if p.Options[i].ID == optionID {
			p.Options[i].Votes++
			p.TotalVotes++
			return VoteApplied
		}
	}
	return VoteOptionNotFound
}

// Polls returns a copy of all polls in seed order.
func (s *PollStore) Polls() []models.Poll {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Poll, len(s.polls))
	for i, poll := range s.polls {
		out[i] = copyPoll(poll)
	}
	return out
}

// Poll returns the poll with the given id.
func (s *PollStore) Poll(id string) (models.Poll, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.find(id)
	if p == nil {
		return models.Poll{}, false
	}
	return copyPoll(*p), true
}

// Results computes each option's share of the vote, rounded to one decimal.
// LeaderID names the option with strictly the most votes.
func (s *PollStore) Results(id string) (models.PollResults, bool) {
	poll, ok := s.Poll(id)
	if !ok {
		return models.PollResults{}, false
	}

	res := models.PollResults{
		PollID:     poll.ID,
		Question:   poll.Question,
		TotalVotes: poll.TotalVotes,
		Shares:     make([]models.OptionShare, 0, len(poll.Options)),
	}

	best, tie := -1, false
	for _, opt := range poll.Options {
		var pct float64
		if poll.TotalVotes > 0 {
			pct = math.Round(float64(opt.Votes)*1000/float64(poll.TotalVotes)) / 10
		}
		res.Shares = append(res.Shares, models.OptionShare{
			OptionID: opt.ID,
			Text:     opt.Text,
			Votes:    opt.Votes,
			Percent:  pct,
		})

		switch {
		case opt.Votes > best:
			best, tie = opt.Votes, false
			res.LeaderID = opt.ID
		case opt.Votes == best:
			tie = true
		}
	}
	if tie || best <= 0 {
		res.LeaderID = ""
	}

	return res, true
}

func (s *PollStore) find(id string) *models.Poll {
	for i := range s.polls {
		if s.polls[i].ID == id {
			return &s.polls[i]
		}
	}
	return nil
}

func copyPoll(poll models.Poll) models.Poll {
	opts := make([]models.PollOption, len(poll.Options))
	copy(opts, poll.Options)
	poll.Options = opts
	return poll
}
