// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PoojithGuntaka/CivicConnect/llm"
	"github.com/PoojithGuntaka/CivicConnect/metrics"
	"github.com/PoojithGuntaka/CivicConnect/models"
)

// Fixed replies returned instead of errors.
const (
	FallbackEmpty = "I'm sorry, I couldn't process that request."
	FallbackError = "I am currently experiencing high traffic. Please try again later."
)

const (
	// HistoryLimit is the number of prior messages sent as context.
	HistoryLimit = 5

	// MaxOutputTokens bounds the reply length.
	MaxOutputTokens = 300
)

const systemInstruction = `You are a helpful, neutral, and informative virtual assistant for the "CivicConnect" government platform.
Your goal is to help citizens understand services, report issues, and participate in governance.
Keep answers concise (under 100 words) unless asked for details.
If you don't know a specific policy, advise them to contact the city clerk.`

// Outcome says where a reply's text came from.
type Outcome int

const (
	OutcomeLive Outcome = iota
	OutcomeEmpty
	OutcomeError
)

// Fallback reports whether the reply is one of the fixed strings.
func (o Outcome) Fallback() bool {
	return o != OutcomeLive
}

// Reply is the assistant's answer to one message.
type Reply struct {
	Text    string
	Outcome Outcome
}

// Assistant frames citizen questions for the model and converts every
// failure into a fixed reply.
type Assistant struct {
	gen     llm.Generator
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assistant) {
		a.logger = logger
	}
}

// WithMetrics records call outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Assistant) {
		a.metrics = m
	}
}

// New creates an Assistant. A nil generator makes every call fall back.
func New(gen llm.Generator, opts ...Option) *Assistant {
	a := &Assistant{
		gen:    gen,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Chat answers message given up to HistoryLimit prior turns formatted
// "sender: text". It never returns an error; failures yield FallbackEmpty
// or FallbackError.
func (a *Assistant) Chat(ctx context.Context, message string, history []string) string {
	return a.Reply(ctx, message, history).Text
}

// Reply is Chat with the outcome attached.
func (a *Assistant) Reply(ctx context.Context, message string, history []string) Reply {
	if len(history) > HistoryLimit {
		history = history[len(history)-HistoryLimit:]
	}

	start := time.Now()
	resp, err := a.generate(ctx, message, history)
	elapsed := time.Since(start)

	switch {
	case err != nil:
		a.logger.Error("assistant chat failed",
			"error", err,
			"error_kind", llm.ErrorKind(err),
			"duration_ms", elapsed.Milliseconds())
		a.metrics.IntegrationCall(metrics.IntegrationChat, metrics.ResultFallback, llm.ErrorKind(err), elapsed)
		return Reply{Text: FallbackError, Outcome: OutcomeError}

	case resp == nil || resp.Text == "":
		a.logger.Warn("assistant returned empty response", "duration_ms", elapsed.Milliseconds())
		a.metrics.IntegrationCall(metrics.IntegrationChat, metrics.ResultFallback, "empty", elapsed)
		return Reply{Text: FallbackEmpty, Outcome: OutcomeEmpty}
	}

	a.metrics.IntegrationCall(metrics.IntegrationChat, metrics.ResultLive, "none", elapsed)
	return Reply{Text: resp.Text, Outcome: OutcomeLive}
}

func (a *Assistant) generate(ctx context.Context, message string, history []string) (resp *llm.Response, err error) {
	if a.gen == nil {
		return nil, fmt.Errorf("no model configured")
	}

	// A panicking generator is treated like any other failure.
	defer func() {
		if r := recover(); r != nil {
			resp, err = nil, fmt.Errorf("model call panicked: %v", r)
		}
	}()

	return a.gen.Generate(ctx, BuildRequest(message, history))
}

// BuildRequest frames message and history as a model request: the history
// joined into one context turn, then the message itself.
func BuildRequest(message string, history []string) llm.Request {
	return llm.Request{
		SystemInstruction: systemInstruction,
		Contents: []llm.Content{
			{Role: llm.RoleUser, Text: "Context History: " + strings.Join(history, "\n")},
			{Role: llm.RoleUser, Text: message},
		},
		MaxOutputTokens: MaxOutputTokens,
	}
}

// HistoryWindow formats the last HistoryLimit messages, regardless of
// sender, as "sender: text".
func HistoryWindow(messages []models.ChatMessage) []string {
	if len(messages) > HistoryLimit {
		messages = messages[len(messages)-HistoryLimit:]
	}
	out := make([]string, len(messages))
	for i, m := range messages {
		out[i] = m.Sender + ": " + m.Text
	}
	return out
}
