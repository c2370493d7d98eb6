// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/PoojithGuntaka/CivicConnect/llm"
	"github.com/PoojithGuntaka/CivicConnect/metrics"
	"github.com/PoojithGuntaka/CivicConnect/models"
)

// FallbackSummary is the summary of the report returned when analysis fails.
const FallbackSummary = "Automated analysis unavailable; please review raw data."

const instruction = `Analyze the following list of citizen grievances/issues.
Determine the overall public sentiment, a satisfaction score (0-100 where 100 is perfect happiness, 0 is angry),
identify 3 key recurring themes, and write a brief 1-sentence executive summary for the Mayor.`

var (
	ErrNoData         = errors.New("model returned no data")
	ErrSchemaMismatch = errors.New("report does not match schema")
)

// ReportSchema is the structured-output schema sent with every request.
var ReportSchema = &llm.Schema{
	Type: llm.TypeObject,
	Properties: map[string]*llm.Schema{
		"overallSentiment": {
			Type: llm.TypeString,
			Enum: []string{models.SentimentPositive, models.SentimentNeutral, models.SentimentNegative},
		},
		"score":     {Type: llm.TypeNumber},
		"keyThemes": {Type: llm.TypeArray, Items: &llm.Schema{Type: llm.TypeString}},
		"summary":   {Type: llm.TypeString},
	},
	Required: []string{"overallSentiment", "score", "keyThemes", "summary"},
}

// Fallback returns the fixed neutral report used whenever analysis fails.
func Fallback() models.SentimentReport {
	return models.SentimentReport{
		OverallSentiment: models.SentimentNeutral,
		Score:            50,
		KeyThemes:        []string{"Infrastructure", "Delays", "Maintenance"},
		Summary:          FallbackSummary,
		Source:           models.SourceFallback,
	}
}

// Analyzer turns a batch of issues into a SentimentReport with one model call.
type Analyzer struct {
	gen     llm.Generator
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// WithMetrics records call outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Analyzer) {
		a.metrics = m
	}
}

// New creates an Analyzer. A nil generator makes every call fall back.
func New(gen llm.Generator, opts ...Option) *Analyzer {
	a := &Analyzer{
		gen:    gen,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze never fails: any transport error, missing or malformed JSON, or
// schema violation yields Fallback().
func (a *Analyzer) Analyze(ctx context.Context, issues []models.Issue) models.SentimentReport {
	start := time.Now()
	report, err := a.analyze(ctx, issues)
	elapsed := time.Since(start)

	if err != nil {
		kind := llm.ErrorKind(err)
		if errors.Is(err, ErrNoData) || errors.Is(err, ErrSchemaMismatch) {
			kind = "invalid"
		}
		a.logger.Error("sentiment analysis failed",
			"error", err,
			"error_kind", kind,
			"issues", len(issues),
			"duration_ms", elapsed.Milliseconds())
		a.metrics.IntegrationCall(metrics.IntegrationSentiment, metrics.ResultFallback, kind, elapsed)
		return Fallback()
	}

	a.logger.Info("sentiment analysis completed",
		"sentiment", report.OverallSentiment,
		"score", report.Score,
		"issues", len(issues),
		"duration_ms", elapsed.Milliseconds())
	a.metrics.IntegrationCall(metrics.IntegrationSentiment, metrics.ResultLive, "none", elapsed)
	return report
}

func (a *Analyzer) analyze(ctx context.Context, issues []models.Issue) (report models.SentimentReport, err error) {
	if a.gen == nil {
		return report, fmt.Errorf("no model configured")
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("model call panicked: %v", r)
		}
	}()

	resp, err := a.gen.Generate(ctx, BuildRequest(issues))
	if err != nil {
		return report, err
	}
	if resp == nil || resp.Text == "" {
		return report, ErrNoData
	}
	return ParseReport(resp.Text)
}

// IssueBlock renders issues as "Title: ... Description: ... Category: ..."
// lines separated by "---".
func IssueBlock(issues []models.Issue) string {
	parts := make([]string, len(issues))
	for i, issue := range issues {
		parts[i] = fmt.Sprintf("Title: %s. Description: %s. Category: %s", issue.Title, issue.Description, issue.Category)
	}
	return strings.Join(parts, "\n---\n")
}

// BuildRequest sends the issue block, then the instruction, with JSON output
// constrained to ReportSchema.
func BuildRequest(issues []models.Issue) llm.Request {
	return llm.Request{
		Contents: []llm.Content{
			{Role: llm.RoleUser, Text: IssueBlock(issues)},
			{Role: llm.RoleUser, Text: instruction},
		},
		ResponseMIMEType: llm.MIMEJSON,
		ResponseSchema:   ReportSchema,
	}
}

// rawReport distinguishes absent fields from zero values.
type rawReport struct {
	OverallSentiment *string   `json:"overallSentiment"`
	Score            *float64  `json:"score"`
	KeyThemes        *[]string `json:"keyThemes"`
	Summary          *string   `json:"summary"`
}

// ParseReport decodes model text into a live report. The text must be a
// single JSON object, optionally wrapped in one markdown code block. All four
// fields must be present, the sentiment must be one of the enum values and
// the score must lie in [0,100].
func ParseReport(text string) (models.SentimentReport, error) {
	body := llm.UnwrapFence(text)
	if body == "" {
		return models.SentimentReport{}, ErrNoData
	}

	var r rawReport
	dec := json.NewDecoder(strings.NewReader(body))
	if err := dec.Decode(&r); err != nil {
		return models.SentimentReport{}, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return models.SentimentReport{}, fmt.Errorf("%w: trailing data after object", ErrSchemaMismatch)
	}

	var missing []string
	if r.OverallSentiment == nil {
		missing = append(missing, "overallSentiment")
	}
	if r.Score == nil {
		missing = append(missing, "score")
	}
	if r.KeyThemes == nil {
		missing = append(missing, "keyThemes")
	}
	if r.Summary == nil {
		missing = append(missing, "summary")
	}
	if len(missing) > 0 {
		return models.SentimentReport{}, fmt.Errorf("%w: missing %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	}

	if !slices.Contains(ReportSchema.Properties["overallSentiment"].Enum, *r.OverallSentiment) {
		return models.SentimentReport{}, fmt.Errorf("%w: overallSentiment %q", ErrSchemaMismatch, *r.OverallSentiment)
	}
	score := *r.Score
	if math.IsNaN(score) || score < 0 || score > 100 {
		return models.SentimentReport{}, fmt.Errorf("%w: score %v out of range", ErrSchemaMismatch, score)
	}

	return models.SentimentReport{
		OverallSentiment: *r.OverallSentiment,
		Score:            score,
		KeyThemes:        *r.KeyThemes,
		Summary:          *r.Summary,
		Source:           models.SourceLive,
	}, nil
}
