package analytics

import (
	"fmt"
	"time"
)

// Summary is the top-level statistics report.
type Summary struct {
	TotalEvents     int            `json:"total_events"`
	Last24h         int            `json:"last_24h"`
	Last7d          int            `json:"last_7d"`
	OverallAccuracy float64        `json:"overall_accuracy"`
	AvgResponseTime float64        `json:"avg_response_time"`
	AvgConfidence   float64        `json:"avg_confidence"`
	UnknownRate     float64        `json:"unknown_rate"`
	TopGestures     []GestureCount `json:"top_gestures"`
}

// GestureCount is a gesture and its event count.
type GestureCount struct {
	Gesture string `json:"gesture"`
	Count   int    `json:"count"`
}

// GestureBreakdown is the per-gesture statistics record.
type GestureBreakdown struct {
	Gesture         string  `json:"gesture"`
	Count           int     `json:"count"`
	Accuracy        float64 `json:"accuracy"`
	AvgConfidence   float64 `json:"avg_confidence"`
	AvgResponseTime float64 `json:"avg_response_time"`
	MinResponseTime float64 `json:"min_response_time"`
	MaxResponseTime float64 `json:"max_response_time"`
	Percentage      float64 `json:"percentage"`
}

// Timeline is the sparse hourly activity report.
type Timeline struct {
	Hours   int              `json:"hours"`
	Buckets []TimelineBucket `json:"buckets"`
}

// TimelineBucket is one non-empty hour of activity.
type TimelineBucket struct {
	HourStart       string  `json:"hour_start"`
	Count           int     `json:"count"`
	AvgConfidence   float64 `json:"avg_confidence"`
	AvgResponseTime float64 `json:"avg_response_time"`
}

// AccuracyReport combines per-gesture correctness with the fixed
// confidence and response-time histograms.
type AccuracyReport struct {
	GestureAccuracy        []GestureAccuracy `json:"gesture_accuracy"`
	ConfidenceDistribution map[string]int    `json:"confidence_distribution"`
	ResponseDistribution   map[string]int    `json:"response_distribution"`
}

// GestureAccuracy is the correctness record for one gesture.
type GestureAccuracy struct {
	Gesture       string  `json:"gesture"`
	Total         int     `json:"total"`
	Correct       int     `json:"correct"`
	Incorrect     int     `json:"incorrect"`
	Accuracy      float64 `json:"accuracy"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// Performance reports response-time aggregates and live counters.
type Performance struct {
	ResponseTime ResponseTimeStats `json:"response_time"`
	Recent       ResponseTimeStats `json:"recent"`
	Uptime       float64           `json:"uptime_seconds"`
	TotalReqs    int64             `json:"total_requests"`
	ErrorCount   int64             `json:"error_count"`
	AvgFPS       float64           `json:"avg_fps"`
}

// ResponseTimeStats holds latency aggregates over measured rows.
type ResponseTimeStats struct {
	Count int     `json:"count"`
	Avg   float64 `json:"avg"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

var confidenceBuckets = [5]string{"90-100%", "80-90%", "70-80%", "60-70%", "<60%"}
var responseBuckets = [5]string{"<50ms", "50-100ms", "100-200ms", "200-500ms", ">500ms"}

// Summary computes the top-level statistics report.
func (e *Engine) Summary() (*Summary, error) {
	if v, ok := e.cacheGet("summary"); ok {
		return v.(*Summary), nil
	}

	total, err := e.events.Count()
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}

	now := e.clock()
	last24, err := e.events.CountSince(now - 24*3600)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	last7d, err := e.events.CountSince(now - 7*24*3600)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}

	overview, err := e.events.Overview()
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}

	unknownRate := 0.0
	if total > 0 {
		unknownRate = float64(overview.UnknownCount) / float64(total) * 100.0
	}

	top, err := e.events.TopGestures(3)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}

	topGestures := make([]GestureCount, 0, len(top))
	for _, gc := range top {
		topGestures = append(topGestures, GestureCount{Gesture: gc.Gesture, Count: gc.Count})
	}

	s := &Summary{
		TotalEvents:     total,
		Last24h:         last24,
		Last7d:          last7d,
		OverallAccuracy: overview.AccuracyPct,
		AvgResponseTime: overview.AvgResponseTime,
		AvgConfidence:   overview.AvgConfidence,
		UnknownRate:     unknownRate,
		TopGestures:     topGestures,
	}
	e.cachePut("summary", s)
	return s, nil
}

// ByGesture computes one breakdown record per distinct gesture.
// Response-time aggregates include unmeasured rows; see DESIGN.md for
// the relationship to the summary's measured-only average.
func (e *Engine) ByGesture() ([]GestureBreakdown, error) {
	if v, ok := e.cacheGet("by_gesture"); ok {
		return v.([]GestureBreakdown), nil
	}

	stats, err := e.events.GestureStats()
	if err != nil {
		return nil, fmt.Errorf("by gesture: %w", err)
	}

	total := 0
	for _, gs := range stats {
		total += gs.Count
	}

	out := make([]GestureBreakdown, 0, len(stats))
	for _, gs := range stats {
		pct := 0.0
		if total > 0 {
			pct = float64(gs.Count) / float64(total) * 100.0
		}

		out = append(out, GestureBreakdown{
			Gesture:         gs.Gesture,
			Count:           gs.Count,
			Accuracy:        gs.AccuracyPct,
			AvgConfidence:   gs.AvgConfidence,
			AvgResponseTime: gs.AvgResponseTime,
			MinResponseTime: gs.MinResponseTime,
			MaxResponseTime: gs.MaxResponseTime,
			Percentage:      pct,
		})
	}

	e.cachePut("by_gesture", out)
	return out, nil
}

// Timeline buckets the last h hours of events into sparse hourly
// buckets. The window is clamped to [MinTimelineHours, MaxTimelineHours].
func (e *Engine) Timeline(hours int) (*Timeline, error) {
	if hours < MinTimelineHours {
		hours = MinTimelineHours
	}
	if hours > MaxTimelineHours {
		hours = MaxTimelineHours
	}

	key := fmt.Sprintf("timeline:%d", hours)
	if v, ok := e.cacheGet(key); ok {
		return v.(*Timeline), nil
	}

	now := e.clock()
	start := now - float64(hours)*3600

	rows, err := e.events.Timeline(start, now)
	if err != nil {
		return nil, fmt.Errorf("timeline: %w", err)
	}

	buckets := make([]TimelineBucket, 0, len(rows))
	for _, row := range rows {
		startUnix := int64(start) + int64(row.Bucket)*3600
		buckets = append(buckets, TimelineBucket{
			HourStart:       time.Unix(startUnix, 0).Format("2006-01-02 15:00"),
			Count:           row.Count,
			AvgConfidence:   row.AvgConfidence,
			AvgResponseTime: row.AvgResponseTime,
		})
	}

	t := &Timeline{Hours: hours, Buckets: buckets}
	e.cachePut(key, t)
	return t, nil
}

// Accuracy computes per-gesture correctness (excluding UNKNOWN) and the
// fixed confidence and response-time histograms.
func (e *Engine) Accuracy() (*AccuracyReport, error) {
	if v, ok := e.cacheGet("accuracy"); ok {
		return v.(*AccuracyReport), nil
	}

	rows, err := e.events.AccuracyByGesture()
	if err != nil {
		return nil, fmt.Errorf("accuracy: %w", err)
	}

	gestures := make([]GestureAccuracy, 0, len(rows))
	for _, row := range rows {
		acc := 0.0
		if row.Total > 0 {
			acc = float64(row.Correct) / float64(row.Total) * 100.0
		}

		gestures = append(gestures, GestureAccuracy{
			Gesture:       row.Gesture,
			Total:         row.Total,
			Correct:       row.Correct,
			Incorrect:     row.Total - row.Correct,
			Accuracy:      acc,
			AvgConfidence: row.AvgConfidence,
		})
	}

	confidence, err := e.events.ConfidenceDistribution()
	if err != nil {
		return nil, fmt.Errorf("accuracy: %w", err)
	}
	response, err := e.events.ResponseDistribution()
	if err != nil {
		return nil, fmt.Errorf("accuracy: %w", err)
	}

	report := &AccuracyReport{
		GestureAccuracy:        gestures,
		ConfidenceDistribution: make(map[string]int, len(confidenceBuckets)),
		ResponseDistribution:   make(map[string]int, len(responseBuckets)),
	}
	for i, label := range confidenceBuckets {
		report.ConfidenceDistribution[label] = confidence[i]
	}
	for i, label := range responseBuckets {
		report.ResponseDistribution[label] = response[i]
	}

	e.cachePut("accuracy", report)
	return report, nil
}

// Performance reports global and last-hour response-time aggregates
// together with the live runtime counters. Never cached: the counters
// are expected to be current.
func (e *Engine) Performance() (*Performance, error) {
	overall, err := e.events.ResponseStatsSince(0)
	if err != nil {
		return nil, fmt.Errorf("performance: %w", err)
	}

	now := e.clock()
	recent, err := e.events.ResponseStatsSince(now - 3600)
	if err != nil {
		return nil, fmt.Errorf("performance: %w", err)
	}

	live := e.stats.Stats()

	return &Performance{
		ResponseTime: ResponseTimeStats{Count: overall.Count, Avg: overall.Avg, Min: overall.Min, Max: overall.Max},
		Recent:       ResponseTimeStats{Count: recent.Count, Avg: recent.Avg, Min: recent.Min, Max: recent.Max},
		Uptime:       live.Uptime,
		TotalReqs:    live.TotalRequests,
		ErrorCount:   live.ErrorCount,
		AvgFPS:       live.AvgFPS,
	}, nil
}
