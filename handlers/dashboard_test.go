// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/PoojithGuntaka/CivicConnect/models"
	"github.com/PoojithGuntaka/CivicConnect/sentiment"
	"github.com/PoojithGuntaka/CivicConnect/store"
	"github.com/PoojithGuntaka/CivicConnect/testutil"
)

const liveReport = `{"overallSentiment":"negative","score":35,"keyThemes":["Roads","Lighting","Noise"],"summary":"Residents want faster repairs."}`

func newTestDashboardHandler(t *testing.T, issues *store.IssueStore, gen *testutil.StubGenerator) *DashboardHandler {
	t.Helper()
	loader := sentiment.NewLoader(sentiment.New(gen), nil, nil, nil)
	h := NewDashboardHandler(issues, loader)
	h.now = func() time.Time { return testutil.FixedNow }
	return h
}

func getSentiment(t *testing.T, handler *DashboardHandler) models.SentimentResponse {
	t.Helper()

	w := httptest.NewRecorder()
	handler.Sentiment(w, testutil.MakeRequest("GET", "/dashboard/sentiment", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.SentimentResponse
	testutil.AssertJSON(t, w, &resp)
	return resp
}

func TestDashboardStats(t *testing.T) {
	issues, _ := testutil.NewTestStores(t)
	handler := newTestDashboardHandler(t, issues, &testutil.StubGenerator{})

	w := httptest.NewRecorder()
	handler.Stats(w, testutil.MakeRequest("GET", "/dashboard/stats", nil, nil))

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.DashboardStatsResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.Stats.Total != 4 || resp.Stats.Submitted != 2 || resp.Stats.InProgress != 1 || resp.Stats.Resolved != 1 {
		t.Errorf("Unexpected stats %+v", resp.Stats)
	}
	if resp.Stats.ByCategory[models.CategoryNoise] != 1 {
		t.Errorf("Expected one noise issue, got %d", resp.Stats.ByCategory[models.CategoryNoise])
	}
	if len(resp.RecentIssues) != 4 {
		t.Fatalf("Expected 4 recent issues, got %d", len(resp.RecentIssues))
	}
	if resp.RecentIssues[0].ReportedAgo == "" {
		t.Error("Expected recent issues to carry reported_ago")
	}
}

func TestDashboardSentiment_NoIssues(t *testing.T) {
	gen := &testutil.StubGenerator{Text: liveReport}
	handler := newTestDashboardHandler(t, store.NewIssueStore(nil), gen)

	resp := getSentiment(t, handler)

	if resp.Report != nil {
		t.Errorf("Expected no report without issues, got %+v", resp.Report)
	}
	if gen.Calls() != 0 {
		t.Errorf("Expected no analysis without issues, got %d calls", gen.Calls())
	}
}

func TestDashboardSentiment_CachedAfterFirstLoad(t *testing.T) {
	issues, _ := testutil.NewTestStores(t)
	gen := &testutil.StubGenerator{Text: liveReport}
	handler := newTestDashboardHandler(t, issues, gen)

	first := getSentiment(t, handler)
	if first.Report == nil || first.Cached {
		t.Fatalf("Expected a fresh report, got %+v", first)
	}
	if first.Report.Source != models.SourceLive || first.Report.Score != 35 {
		t.Errorf("Unexpected report %+v", first.Report)
	}

	// New issues do not trigger a new analysis.
	issues.SubmitIssue(models.NewIssue{Title: "Flooding", Description: "Underpass floods", Category: models.CategorySafety})

	second := getSentiment(t, handler)
	if !second.Cached {
		t.Error("Expected the cached report")
	}
	if gen.Calls() != 1 {
		t.Errorf("Expected one analysis, got %d", gen.Calls())
	}
}

func TestDashboardSentiment_FallbackNotCached(t *testing.T) {
	issues, _ := testutil.NewTestStores(t)
	gen := &testutil.StubGenerator{Err: errors.New("quota exceeded")}
	handler := newTestDashboardHandler(t, issues, gen)

	for i := 0; i < 2; i++ {
		resp := getSentiment(t, handler)
		if resp.Report == nil {
			t.Fatal("Expected the fallback report")
		}
		if resp.Cached {
			t.Error("A fallback must never be served from the cache")
		}
		if !reflect.DeepEqual(*resp.Report, sentiment.Fallback()) {
			t.Errorf("Unexpected fallback %+v", resp.Report)
		}
	}

	if gen.Calls() != 2 {
		t.Errorf("Expected each load to retry, got %d calls", gen.Calls())
	}
}

func TestClearSentiment(t *testing.T) {
	issues, _ := testutil.NewTestStores(t)
	gen := &testutil.StubGenerator{Text: liveReport}
	handler := newTestDashboardHandler(t, issues, gen)

	getSentiment(t, handler)

	w := httptest.NewRecorder()
	handler.ClearSentiment(w, testutil.MakeRequest("DELETE", "/dashboard/sentiment", nil, nil))
	testutil.AssertStatus(t, w, http.StatusNoContent)

	resp := getSentiment(t, handler)
	if resp.Cached {
		t.Error("Expected a fresh report after clearing")
	}
	if gen.Calls() != 2 {
		t.Errorf("Expected a second analysis, got %d calls", gen.Calls())
	}
}
