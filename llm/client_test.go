// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package llm_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PoojithGuntaka/CivicConnect/llm"
	_ "github.com/PoojithGuntaka/CivicConnect/llm/providers" // Register providers
)

func geminiReply(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{
				"content":      map[string]any{"role": "model", "parts": []map[string]string{{"text": text}}},
				"finishReason": "STOP",
			},
		},
		"usageMetadata": map[string]int{"totalTokenCount": 12},
	}
}

func TestClient_Generate_Success(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(geminiReply("Hello from the city."))
	}))
	defer server.Close()

	client := llm.NewClient(llm.Endpoint{
		Provider: "gemini",
		URL:      server.URL,
		Model:    "gemini-2.5-flash",
		APIKey:   "test-key",
	})

	resp, err := client.Generate(context.Background(), llm.Request{
		SystemInstruction: "Be helpful.",
		Contents:          []llm.Content{{Role: llm.RoleUser, Text: "Hi"}},
		MaxOutputTokens:   300,
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello from the city.", resp.Text)
	assert.Equal(t, 12, resp.Usage.TotalTokens)
	assert.Equal(t, "/models/gemini-2.5-flash:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Contains(t, gotBody, "systemInstruction")
}

func TestClient_Generate_NoRetry(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("overloaded"))
	}))
	defer server.Close()

	client := llm.NewClient(llm.Endpoint{Provider: "gemini", URL: server.URL, Model: "m"})

	_, err := client.Generate(context.Background(), llm.Request{
		Contents: []llm.Content{{Role: llm.RoleUser, Text: "Hi"}},
	})
	require.Error(t, err)
	assert.True(t, llm.IsTransient(err))
	assert.Equal(t, int32(1), attempts.Load(), "client must not retry")
}

func TestClient_Generate_ErrorClassification(t *testing.T) {
	tests := []struct {
		status    int
		transient bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
		{http.StatusUnauthorized, false},
		{http.StatusForbidden, false},
		{http.StatusBadRequest, false},
		{http.StatusNotFound, false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := llm.NewClient(llm.Endpoint{Provider: "gemini", URL: server.URL, Model: "m"})
			_, err := client.Generate(context.Background(), llm.Request{
				Contents: []llm.Content{{Role: llm.RoleUser, Text: "Hi"}},
			})
			require.Error(t, err)
			assert.Equal(t, tt.transient, llm.IsTransient(err))
			assert.Equal(t, !tt.transient, llm.IsFatal(err))
		})
	}
}

func TestClient_Generate_InvalidBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway</html>"))
	}))
	defer server.Close()

	client := llm.NewClient(llm.Endpoint{Provider: "gemini", URL: server.URL, Model: "m"})
	_, err := client.Generate(context.Background(), llm.Request{
		Contents: []llm.Content{{Role: llm.RoleUser, Text: "Hi"}},
	})
	require.Error(t, err)
	assert.True(t, llm.IsFatal(err))
}

func TestClient_Generate_UnknownProvider(t *testing.T) {
	client := llm.NewClient(llm.Endpoint{Provider: "nope", Model: "m"})
	_, err := client.Generate(context.Background(), llm.Request{
		Contents: []llm.Content{{Role: llm.RoleUser, Text: "Hi"}},
	})
	require.Error(t, err)
	assert.True(t, llm.IsFatal(err))
}

func TestClient_Generate_NoContents(t *testing.T) {
	client := llm.NewClient(llm.Endpoint{Provider: "gemini", Model: "m"})
	_, err := client.Generate(context.Background(), llm.Request{})
	require.Error(t, err)
}

func TestClient_Generate_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := llm.NewClient(llm.Endpoint{Provider: "gemini", URL: url, Model: "m"})
	_, err := client.Generate(context.Background(), llm.Request{
		Contents: []llm.Content{{Role: llm.RoleUser, Text: "Hi"}},
	})
	require.Error(t, err)
	assert.True(t, llm.IsTransient(err))
}

func TestClient_Generate_TransportTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		json.NewEncoder(w).Encode(geminiReply("late"))
	}))
	defer server.Close()

	client := llm.NewClient(
		llm.Endpoint{Provider: "gemini", URL: server.URL, Model: "m"},
		llm.WithTimeout(20*time.Millisecond),
	)
	_, err := client.Generate(context.Background(), llm.Request{
		Contents: []llm.Content{{Role: llm.RoleUser, Text: "Hi"}},
	})
	require.Error(t, err)
}

func TestClient_Generate_OpenAI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"model": "gpt-test",
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "ok"}, "finish_reason": "stop"},
			},
		})
	}))
	defer server.Close()

	client := llm.NewClient(llm.Endpoint{Provider: "openai", URL: server.URL + "/v1", Model: "gpt-test", APIKey: "sk"})
	resp, err := client.Generate(context.Background(), llm.Request{
		Contents: []llm.Content{{Role: llm.RoleUser, Text: "Hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, "gpt-test", resp.Model)
}
