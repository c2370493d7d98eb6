// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package llm is a small provider-agnostic client for generative model APIs.
// It sends exactly one request per call; callers own any fallback behavior.
package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// maxResponseSize limits the model response body to prevent memory exhaustion.
const maxResponseSize = 10 * 1024 * 1024 // 10MB

// Roles used in Content.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Generator is implemented by Client and by test doubles.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

// Content is one conversation turn.
type Content struct {
	Role string
	Text string
}

// Request defines a single generation request.
type Request struct {
	// SystemInstruction frames the model persona. Optional.
	SystemInstruction string

	// Contents are the conversation turns, oldest first.
	Contents []Content

	// MaxOutputTokens bounds the response length. 0 uses the provider default.
	MaxOutputTokens int

	// ResponseMIMEType requests a specific output format, e.g. "application/json".
	ResponseMIMEType string

	// ResponseSchema constrains structured output. Requires ResponseMIMEType.
	ResponseSchema *Schema
}

// TokenUsage reports token consumption when the provider returns it.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the generation result. Text may be empty when the provider
// returned no candidates.
type Response struct {
	Text         string
	Model        string
	FinishReason string
	Usage        TokenUsage
}

// Endpoint identifies where and how to reach a model.
type Endpoint struct {
	Provider string // registered provider name, e.g. "gemini"
	URL      string // base URL; empty uses the provider default
	Model    string
	APIKey   string
}

// Client calls one model endpoint.
type Client struct {
	endpoint   Endpoint
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithTimeout sets the transport timeout of the default HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(client *Client) {
		client.httpClient = &http.Client{Timeout: d}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(client *Client) {
		client.logger = logger
	}
}

// NewClient creates a client for the given endpoint.
func NewClient(ep Endpoint, opts ...ClientOption) *Client {
	c := &Client{
		endpoint: ep,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Generate sends one request to the endpoint. It does not retry.
func (c *Client) Generate(ctx context.Context, req Request) (*Response, error) {
	if len(req.Contents) == 0 {
		return nil, NewFatalError(errors.New("at least one content turn is required"))
	}

	provider := GetProvider(c.endpoint.Provider)
	if provider == nil {
		return nil, NewFatalError(fmt.Errorf("unknown provider: %s", c.endpoint.Provider))
	}

	url := provider.BuildURL(c.endpoint.URL, c.endpoint.Model)

	body, err := provider.BuildRequestBody(c.endpoint.Model, req)
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("build request body: %w", err))
	}

	c.logger.Debug("sending model request",
		"provider", c.endpoint.Provider,
		"model", c.endpoint.Model,
		"contents", len(req.Contents),
		"structured", req.ResponseSchema != nil)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("create HTTP request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	provider.SetHeaders(httpReq, c.endpoint.APIKey)

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Network errors are transient
		return nil, NewTransientError(fmt.Errorf("HTTP request failed: %w", err))
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return nil, NewTransientError(fmt.Errorf("read response body: %w", err))
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, classifyHTTPError(httpResp.StatusCode, respBody)
	}

	resp, err := provider.ParseResponse(respBody, c.endpoint.Model)
	if err != nil {
		return nil, NewFatalError(err)
	}

	c.logger.Debug("model request completed",
		"model", resp.Model,
		"finish_reason", resp.FinishReason,
		"total_tokens", resp.Usage.TotalTokens,
		"duration_ms", time.Since(start).Milliseconds())

	return resp, nil
}

// classifyHTTPError determines if an HTTP error is transient or fatal.
func classifyHTTPError(statusCode int, body []byte) error {
	bodyStr := string(body)
	if len(bodyStr) > 200 {
		bodyStr = bodyStr[:200] + "..."
	}

	err := fmt.Errorf("model API error (status %d): %s", statusCode, bodyStr)

	switch {
	case statusCode == http.StatusTooManyRequests:
		return NewTransientError(err)
	case statusCode >= 500:
		return NewTransientError(err)
	default:
		// 4xx (auth, bad request) will not improve on their own
		return NewFatalError(err)
	}
}
