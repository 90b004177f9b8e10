package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ayusman/mudra/internal/analytics"
	"github.com/ayusman/mudra/internal/store"
)

func newTestAnalytics(t *testing.T, now float64) (*store.Store, *AnalyticsHandler) {
	t.Helper()

	s := newTestStore(t)
	eng := newTestEngine(s, &now)
	a := analytics.New(analytics.Config{
		Events: s.Events(),
		Stats:  eng,
		Clock:  func() float64 { return now },
	})
	return s, NewAnalyticsHandler(a)
}

func TestAnalyticsHandler_Summary(t *testing.T) {
	now := 1000000.0
	s, handler := newTestAnalytics(t, now)

	for _, e := range []*store.Event{
		{Time: now - 100, Gesture: "PALM", Command: "START", Score: 0.9, IsCorrect: true},
		{Time: now - 200, Gesture: "PALM", Command: "START", Score: 0.8, IsCorrect: true},
		{Time: now - 300, Gesture: "UNKNOWN", Command: "NO_GESTURE", Score: 0.3, IsCorrect: false},
	} {
		if err := s.Events().Insert(e); err != nil {
			t.Fatalf("failed to insert event: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/summary", nil)
	rec := httptest.NewRecorder()

	handler.Summary(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp analytics.Summary
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.TotalEvents != 3 {
		t.Errorf("expected 3 total events, got %d", resp.TotalEvents)
	}
	if len(resp.TopGestures) != 1 || resp.TopGestures[0].Gesture != "PALM" {
		t.Errorf("unexpected top gestures: %v", resp.TopGestures)
	}
}

func TestAnalyticsHandler_Timeline_HoursParam(t *testing.T) {
	_, handler := newTestAnalytics(t, 1000000.0)

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/timeline?hours=48", nil)
	rec := httptest.NewRecorder()

	handler.Timeline(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp analytics.Timeline
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Hours != 48 {
		t.Errorf("expected hours 48, got %d", resp.Hours)
	}
}

func TestAnalyticsHandler_Timeline_DefaultHours(t *testing.T) {
	_, handler := newTestAnalytics(t, 1000000.0)

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/timeline", nil)
	rec := httptest.NewRecorder()

	handler.Timeline(rec, req)

	var resp analytics.Timeline
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Hours != 24 {
		t.Errorf("expected default window of 24 hours, got %d", resp.Hours)
	}
}

func TestAnalyticsHandler_Accuracy(t *testing.T) {
	now := 1000000.0
	s, handler := newTestAnalytics(t, now)

	if err := s.Events().Insert(&store.Event{
		Time: now - 10, Gesture: "PALM", Command: "START", Score: 0.95, IsCorrect: true,
	}); err != nil {
		t.Fatalf("failed to insert event: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/accuracy", nil)
	rec := httptest.NewRecorder()

	handler.Accuracy(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp analytics.AccuracyReport
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.GestureAccuracy) != 1 {
		t.Fatalf("expected 1 gesture, got %d", len(resp.GestureAccuracy))
	}
	if resp.ConfidenceDistribution["90-100%"] != 1 {
		t.Errorf("unexpected confidence distribution: %v", resp.ConfidenceDistribution)
	}
}

func TestAnalyticsHandler_Performance(t *testing.T) {
	_, handler := newTestAnalytics(t, 1000000.0)

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/performance", nil)
	rec := httptest.NewRecorder()

	handler.Performance(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp analytics.Performance
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ResponseTime.Count != 0 {
		t.Errorf("expected no measured rows, got %+v", resp.ResponseTime)
	}
}

func TestAnalyticsHandler_MethodNotAllowed(t *testing.T) {
	_, handler := newTestAnalytics(t, 1000000.0)

	req := httptest.NewRequest(http.MethodPost, "/api/analytics/summary", nil)
	rec := httptest.NewRecorder()

	handler.Summary(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rec.Code)
	}
}
