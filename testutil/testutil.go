// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PoojithGuntaka/CivicConnect/auth"
	"github.com/PoojithGuntaka/CivicConnect/cliparse"
	"github.com/PoojithGuntaka/CivicConnect/llm"
	"github.com/PoojithGuntaka/CivicConnect/middleware"
	"github.com/PoojithGuntaka/CivicConnect/models"
	"github.com/PoojithGuntaka/CivicConnect/seed"
	"github.com/PoojithGuntaka/CivicConnect/store"
)

// TestSalt signs session tokens in tests.
const TestSalt = "test-session-salt"

// FixedNow is the clock used by test stores.
var FixedNow = time.Date(2023, time.October, 28, 9, 30, 0, 0, time.UTC)

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:             3318,
		ModelProvider:    "gemini",
		ModelName:        "gemini-2.5-flash",
		ModelTimeout:     5 * time.Second,
		SessionSalt:      TestSalt,
		MaxConversations: 10,
	}
}

// SeedData loads the embedded seed.
func SeedData(t *testing.T) *seed.Data {
	t.Helper()

	data, err := seed.Load("")
	if err != nil {
		t.Fatalf("Failed to load seed: %v", err)
	}
	return data
}

// NewTestStores returns stores holding the embedded seed with a fixed clock.
func NewTestStores(t *testing.T) (*store.IssueStore, *store.PollStore) {
	t.Helper()

	data := SeedData(t)
	issues := store.NewIssueStore(data.Issues, store.WithClock(func() time.Time { return FixedNow }))
	return issues, store.NewPollStore(data.Polls)
}

// SessionHeaders returns headers carrying a valid session for role.
func SessionHeaders(t *testing.T, role string) map[string]string {
	t.Helper()

	token, err := auth.IssueToken(models.User{ID: "test-" + role, Name: role, Email: role + "@example.com", Role: role}, TestSalt)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return map[string]string{middleware.SessionHeader: token}
}

// StubGenerator is an llm.Generator returning a canned reply.
type StubGenerator struct {
	Text string
	Err  error

	// Release, when set, blocks every call until it is closed.
	Release chan struct{}

	mu    sync.Mutex
	calls atomic.Int32
	last  llm.Request
}

func (g *StubGenerator) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	g.calls.Add(1)
	g.mu.Lock()
	g.last = req
	g.mu.Unlock()

	if g.Release != nil {
		select {
		case <-g.Release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if g.Err != nil {
		return nil, g.Err
	}
	return &llm.Response{Text: g.Text}, nil
}

// Calls returns how many requests were made.
func (g *StubGenerator) Calls() int {
	return int(g.calls.Load())
}

// LastRequest returns the most recent request.
func (g *StubGenerator) LastRequest() llm.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}

// NewGeminiServer fakes the generateContent endpoint. A non-200 status is
// returned as-is with an error body; otherwise text is the single candidate.
func NewGeminiServer(t *testing.T, status int, text string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			w.Write([]byte(`{"error":{"message":"unavailable"}}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content":      map[string]any{"role": "model", "parts": []map[string]string{{"text": text}}},
				"finishReason": "STOP",
			}},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
