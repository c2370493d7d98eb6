// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Issue status constants
const (
	StatusSubmitted  = "submitted"
	StatusInProgress = "in-progress"
	StatusResolved   = "resolved"
)

// Role constants
const (
	RoleCitizen  = "citizen"
	RoleOfficial = "official"
)

// Chat sender constants
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// Sentiment constants
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Report source constants
const (
	SourceLive     = "live"
	SourceFallback = "fallback"
)

// Issue categories offered by the report form
const (
	CategoryInfrastructure = "Infrastructure"
	CategorySanitation     = "Sanitation"
	CategorySafety         = "Safety"
	CategoryNoise          = "Noise"
	CategoryOther          = "Other"
)

// Categories lists the report form categories in display order.
var Categories = []string{
	CategoryInfrastructure,
	CategorySanitation,
	CategorySafety,
	CategoryNoise,
	CategoryOther,
}

// Domain types

// Location is a point on the abstract 0-100 city plane, not real geo.
type Location struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

type Issue struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Category    string    `json:"category" yaml:"category"`
	Status      string    `json:"status" yaml:"status"`
	Date        string    `json:"date" yaml:"date"` // YYYY-MM-DD
	Location    *Location `json:"location,omitempty" yaml:"location,omitempty"`
	Upvotes     int       `json:"upvotes" yaml:"upvotes"`
}

// NewIssue is the citizen-supplied part of an issue.
type NewIssue struct {
	Title       string
	Description string
	Category    string
	Location    *Location
}

type PollOption struct {
	ID    string `json:"id" yaml:"id"`
	Text  string `json:"text" yaml:"text"`
	Votes int    `json:"votes" yaml:"votes"`
}

type Poll struct {
	ID         string       `json:"id" yaml:"id"`
	Question   string       `json:"question" yaml:"question"`
	Options    []PollOption `json:"options" yaml:"options"`
	TotalVotes int          `json:"total_votes" yaml:"total_votes"`
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type ChatMessage struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	IsError   bool      `json:"is_error,omitempty"`
}

// SentimentReport is produced wholesale by one sentiment analysis call.
// Source is set by the analyzer, never by the model.
type SentimentReport struct {
	OverallSentiment string   `json:"overallSentiment"`
	Score            float64  `json:"score"`
	KeyThemes        []string `json:"keyThemes"`
	Summary          string   `json:"summary"`
	Source           string   `json:"source,omitempty"`
}

// Aggregates

type IssueStats struct {
	Total      int            `json:"total"`
	Submitted  int            `json:"submitted"`
	InProgress int            `json:"in_progress"`
	Resolved   int            `json:"resolved"`
	ByCategory map[string]int `json:"by_category"`
}

type OptionShare struct {
	OptionID string  `json:"option_id"`
	Text     string  `json:"text"`
	Votes    int     `json:"votes"`
	Percent  float64 `json:"percent"`
}

type PollResults struct {
	PollID     string        `json:"poll_id"`
	Question   string        `json:"question"`
	TotalVotes int           `json:"total_votes"`
	Shares     []OptionShare `json:"shares"`
	LeaderID   string        `json:"leader_id,omitempty"` // empty on a tie or no votes
}

// Request types

type SubmitIssueRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Location    *Location `json:"location,omitempty"`
}

type CastVoteRequest struct {
	OptionID string `json:"option_id"`
}

type LoginRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type SignupRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type SendMessageRequest struct {
	Text string `json:"text"`
}

// Response types

// IssueView decorates an issue with a human-readable age.
type IssueView struct {
	Issue
	ReportedAgo string `json:"reported_ago,omitempty"`
}

type CastVoteResponse struct {
	Outcome string `json:"outcome"`
	Poll    Poll   `json:"poll"`
}

type AuthResponse struct {
	User         User   `json:"user"`
	SessionToken string `json:"session_token"`
}

// ConversationResponse is a transcript snapshot. Pending is true while a
// message is awaiting an answer.
type ConversationResponse struct {
	ConversationID string        `json:"conversation_id"`
	Messages       []ChatMessage `json:"messages"`
	Pending        bool          `json:"pending"`
}

type SendMessageResponse struct {
	UserMessage ChatMessage `json:"user_message"`
	BotMessage  ChatMessage `json:"bot_message"`
}

type DashboardStatsResponse struct {
	Stats        IssueStats  `json:"stats"`
	RecentIssues []IssueView `json:"recent_issues"`
}

// SentimentResponse is nil-report while there is nothing to analyze.
type SentimentResponse struct {
	Report *SentimentReport `json:"report"`
	Cached bool             `json:"cached"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
