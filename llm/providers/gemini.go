// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package providers registers the model API adapters with the llm package.
// Import it for side effects:
//
//	import _ "github.com/PoojithGuntaka/CivicConnect/llm/providers"
package providers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/PoojithGuntaka/CivicConnect/llm"
)

const geminiDefaultURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiProvider implements the Gemini generateContent REST API.
type GeminiProvider struct{}

func init() {
	llm.RegisterProvider(&GeminiProvider{})
}

// Name returns the provider identifier.
func (g *GeminiProvider) Name() string {
	return "gemini"
}

// BuildURL constructs {base}/models/{model}:generateContent.
func (g *GeminiProvider) BuildURL(baseURL, model string) string {
	if baseURL == "" {
		baseURL = geminiDefaultURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	if strings.HasSuffix(baseURL, ":generateContent") {
		return baseURL
	}

	return baseURL + "/models/" + model + ":generateContent"
}

// SetHeaders adds the API key header. A missing key is not an error here;
// the API rejects the call and the caller falls back.
func (g *GeminiProvider) SetHeaders(req *http.Request, apiKey string) {
	if apiKey != "" {
		req.Header.Set("x-goog-api-key", apiKey)
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	MaxOutputTokens  int         `json:"maxOutputTokens,omitempty"`
	ResponseMIMEType string      `json:"responseMimeType,omitempty"`
	ResponseSchema   *llm.Schema `json:"responseSchema,omitempty"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	Contents          []geminiContent         `json:"contents"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

// BuildRequestBody creates the generateContent request body.
func (g *GeminiProvider) BuildRequestBody(_ string, req llm.Request) ([]byte, error) {
	body := geminiRequest{
		Contents: make([]geminiContent, len(req.Contents)),
	}

	if req.SystemInstruction != "" {
		body.SystemInstruction = &geminiContent{
			Parts: []geminiPart{{Text: req.SystemInstruction}},
		}
	}

	for i, c := range req.Contents {
		role := c.Role
		if role == "" {
			role = llm.RoleUser
		}
		body.Contents[i] = geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: c.Text}},
		}
	}

	if req.MaxOutputTokens > 0 || req.ResponseMIMEType != "" || req.ResponseSchema != nil {
		body.GenerationConfig = &geminiGenerationConfig{
			MaxOutputTokens:  req.MaxOutputTokens,
			ResponseMIMEType: req.ResponseMIMEType,
			ResponseSchema:   req.ResponseSchema,
		}
	}

	return json.Marshal(body)
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
	ModelVersion string `json:"modelVersion"`
}

// ParseResponse joins the text parts of the first candidate. A response
// without candidates (e.g. blocked by safety filters) yields empty text.
func (g *GeminiProvider) ParseResponse(body []byte, model string) (*llm.Response, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	out := &llm.Response{
		Model: model,
		Usage: llm.TokenUsage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
		},
	}
	if resp.ModelVersion != "" {
		out.Model = resp.ModelVersion
	}

	if len(resp.Candidates) == 0 {
		return out, nil
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	out.Text = sb.String()
	out.FinishReason = resp.Candidates[0].FinishReason

	return out, nil
}
