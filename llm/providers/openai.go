// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package providers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/PoojithGuntaka/CivicConnect/llm"
)

const openAIDefaultURL = "https://api.openai.com/v1"

// OpenAIProvider implements the OpenAI-compatible chat completions API
// (OpenAI, OpenRouter, Ollama, vLLM).
type OpenAIProvider struct{}

func init() {
	llm.RegisterProvider(&OpenAIProvider{})
}

// Name returns the provider identifier.
func (o *OpenAIProvider) Name() string {
	return "openai"
}

// BuildURL constructs the chat completions endpoint.
func (o *OpenAIProvider) BuildURL(baseURL, _ string) string {
	if baseURL == "" {
		baseURL = openAIDefaultURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	if strings.HasSuffix(baseURL, "/chat/completions") {
		return baseURL
	}

	return baseURL + "/chat/completions"
}

// SetHeaders adds bearer authentication.
func (o *OpenAIProvider) SetHeaders(req *http.Request, apiKey string) {
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponseFormat struct {
	Type string `json:"type"`
}

type openAIRequest struct {
	Model          string                `json:"model"`
	Messages       []openAIMessage       `json:"messages"`
	MaxTokens      *int                  `json:"max_tokens,omitempty"`
	ResponseFormat *openAIResponseFormat `json:"response_format,omitempty"`
}

// BuildRequestBody creates the chat completions body. The chat API has no
// Gemini-style schema field, so the schema is appended to the system prompt
// and JSON mode is switched on.
func (o *OpenAIProvider) BuildRequestBody(model string, req llm.Request) ([]byte, error) {
	system := req.SystemInstruction
	if req.ResponseSchema != nil {
		schema, err := json.Marshal(req.ResponseSchema)
		if err != nil {
			return nil, fmt.Errorf("marshal response schema: %w", err)
		}
		if system != "" {
			system += "\n\n"
		}
		system += "Respond only with a JSON object matching this schema: " + string(schema)
	}

	messages := make([]openAIMessage, 0, len(req.Contents)+1)
	if system != "" {
		messages = append(messages, openAIMessage{Role: "system", Content: system})
	}
	for _, c := range req.Contents {
		role := "user"
		if c.Role == llm.RoleModel {
			role = "assistant"
		}
		messages = append(messages, openAIMessage{Role: role, Content: c.Text})
	}

	body := openAIRequest{
		Model:    model,
		Messages: messages,
	}
	if req.MaxOutputTokens > 0 {
		maxTokens := req.MaxOutputTokens
		body.MaxTokens = &maxTokens
	}
	if req.ResponseMIMEType == llm.MIMEJSON {
		body.ResponseFormat = &openAIResponseFormat{Type: "json_object"}
	}

	return json.Marshal(body)
}

type openAIResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// ParseResponse extracts the first choice. No choices yields empty text.
func (o *OpenAIProvider) ParseResponse(body []byte, model string) (*llm.Response, error) {
	var resp openAIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse openai response: %w", err)
	}

	out := &llm.Response{
		Model: model,
		Usage: llm.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
	if resp.Model != "" {
		out.Model = resp.Model
	}
	if len(resp.Choices) > 0 {
		out.Text = resp.Choices[0].Message.Content
		out.FinishReason = resp.Choices[0].FinishReason
	}

	return out, nil
}
