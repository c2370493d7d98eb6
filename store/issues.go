// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PoojithGuntaka/CivicConnect/models"
)

// DateLayout is the calendar-day format used for Issue.Date.
const DateLayout = "2006-01-02"

// IssueStore owns the issue collection. Issues are kept newest first and
// only SubmitIssue adds to it.
type IssueStore struct {
	mu     sync.RWMutex
	issues []models.Issue
	now    func() time.Time
	newID  func() string
}

// IssueOption configures an IssueStore.
type IssueOption func(*IssueStore)

// WithClock sets the clock used to stamp submission dates.
func WithClock(now func() time.Time) IssueOption {
	return func(s *IssueStore) {
		s.now = now
	}
}

// WithIDGenerator sets the issue id generator.
func WithIDGenerator(newID func() string) IssueOption {
	return func(s *IssueStore) {
		s.newID = newID
	}
}

// NewIssueStore creates a store seeded with a copy of initial, which is
// expected to already be newest first.
func NewIssueStore(initial []models.Issue, opts ...IssueOption) *IssueStore {
	s := &IssueStore{
		issues: make([]models.Issue, 0, len(initial)),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, issue := range initial {
		s.issues = append(s.issues, copyIssue(issue))
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitIssue records a citizen report and returns it. The new issue becomes
// the head of the collection. It always succeeds.
func (s *IssueStore) SubmitIssue(in models.NewIssue) models.Issue {
	issue := models.Issue{
		ID:          s.newID(),
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Status:      models.StatusSubmitted,
		Date:        s.now().Format(DateLayout),
		Upvotes:     0,
	}
	if in.Location != nil {
		loc := *in.Location
		issue.Location = &loc
	}

	s.mu.Lock()
	s.issues = append([]models.Issue{issue}, s.issues...)
	s.mu.Unlock()

	return copyIssue(issue)
}

// Issues returns a copy of the whole collection, newest first.
func (s *IssueStore) Issues() []models.Issue {
	return s.Recent(-1)
}

// Recent returns up to n issues, newest first. A negative n returns all.
func (s *IssueStore) Recent(n int) []models.Issue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n < 0 || n > len(s.issues) {
		n = len(s.issues)
	}
	out := make([]models.Issue, n)
	for i := 0; i < n; i++ {
		out[i] = copyIssue(s.issues[i])
	}
	return out
}

// Issue returns the issue with the given id.
func (s *IssueStore) Issue(id string) (models.Issue, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, issue := range s.issues {
		if issue.ID == id {
			return copyIssue(issue), true
		}
	}
	return models.Issue{}, false
}

// Len returns the number of issues.
func (s *IssueStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.issues)
}

// Stats counts issues by status and category.
func (s *IssueStore) Stats() models.IssueStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := models.IssueStats{
		Total:      len(s.issues),
		ByCategory: make(map[string]int),
	}
	for _, issue := range s.issues {
		switch issue.Status {
		case models.StatusSubmitted:
			stats.Submitted++
		case models.StatusInProgress:
			stats.InProgress++
		case models.StatusResolved:
			stats.Resolved++
		}
		stats.ByCategory[issue.Category]++
	}
	return stats
}

func copyIssue(issue models.Issue) models.Issue {
	if issue.Location != nil {
		loc := *issue.Location
		issue.Location = &loc
	}
	return issue
}
