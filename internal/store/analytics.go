package store

import "database/sql"

// Aggregate row types returned by the analytics queries. Percentage and
// ratio shaping happens in the analytics engine; this file only runs
// SQL and normalizes NULL aggregates to zero.

// GestureCount is a gesture and its row count.
type GestureCount struct {
	Gesture string
	Count   int
}

// GestureStat summarizes one gesture across all of its rows.
type GestureStat struct {
	Gesture         string
	Count           int
	AccuracyPct     float64
	AvgConfidence   float64
	AvgResponseTime float64
	MinResponseTime float64
	MaxResponseTime float64
}

// GestureAccuracy holds correctness counts for one gesture.
type GestureAccuracy struct {
	Gesture       string
	Total         int
	Correct       int
	AvgConfidence float64
}

// TimelineBucket is one non-empty hourly bucket.
type TimelineBucket struct {
	Bucket          int
	Count           int
	AvgConfidence   float64
	AvgResponseTime float64
}

// ResponseStats holds response-time aggregates over rows with a
// positive (measured) response time.
type ResponseStats struct {
	Count int
	Avg   float64
	Min   float64
	Max   float64
}

// Overview holds the single-row aggregates feeding the summary query.
// AvgResponseTime is computed over measured rows only (response_time > 0);
// AccuracyPct and AvgConfidence cover all rows.
type Overview struct {
	AccuracyPct     float64
	AvgResponseTime float64
	AvgConfidence   float64
	UnknownCount    int
}

func nf(v sql.NullFloat64) float64 {
	if v.Valid {
		return v.Float64
	}
	return 0.0
}

// Overview computes the accuracy, response-time and confidence means
// together with the UNKNOWN row count in a single pass.
func (r *EventRepository) Overview() (*Overview, error) {
	var acc, resp, conf sql.NullFloat64
	var unknown int

	err := r.db.QueryRow(
		`SELECT AVG(is_correct) * 100.0,
		        AVG(CASE WHEN response_time > 0 THEN response_time END),
		        AVG(score),
		        COALESCE(SUM(CASE WHEN gesture = 'UNKNOWN' THEN 1 ELSE 0 END), 0)
		 FROM logs`,
	).Scan(&acc, &resp, &conf, &unknown)
	if err != nil {
		return nil, err
	}

	return &Overview{
		AccuracyPct:     nf(acc),
		AvgResponseTime: nf(resp),
		AvgConfidence:   nf(conf),
		UnknownCount:    unknown,
	}, nil
}

// TopGestures returns the n most frequent gestures excluding UNKNOWN,
// ordered by count descending with the gesture name as stable tiebreak.
func (r *EventRepository) TopGestures(n int) ([]GestureCount, error) {
	rows, err := r.db.Query(
		`SELECT gesture, COUNT(*) AS c FROM logs
		 WHERE gesture != 'UNKNOWN'
		 GROUP BY gesture ORDER BY c DESC, gesture ASC LIMIT ?`,
		n,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GestureCount
	for rows.Next() {
		var gc GestureCount
		if err := rows.Scan(&gc.Gesture, &gc.Count); err != nil {
			return nil, err
		}
		out = append(out, gc)
	}
	return out, rows.Err()
}

// GestureStats aggregates every distinct gesture over all rows.
// Response-time aggregates here include unmeasured (zero) rows.
func (r *EventRepository) GestureStats() ([]GestureStat, error) {
	rows, err := r.db.Query(
		`SELECT gesture, COUNT(*) AS c,
		        AVG(is_correct) * 100.0,
		        AVG(score),
		        AVG(response_time), MIN(response_time), MAX(response_time)
		 FROM logs GROUP BY gesture ORDER BY c DESC, gesture ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GestureStat
	for rows.Next() {
		var gs GestureStat
		var acc, conf, avg, min, max sql.NullFloat64

		if err := rows.Scan(&gs.Gesture, &gs.Count, &acc, &conf, &avg, &min, &max); err != nil {
			return nil, err
		}

		gs.AccuracyPct = nf(acc)
		gs.AvgConfidence = nf(conf)
		gs.AvgResponseTime = nf(avg)
		gs.MinResponseTime = nf(min)
		gs.MaxResponseTime = nf(max)
		out = append(out, gs)
	}
	return out, rows.Err()
}

// Timeline buckets rows between start and end into hours relative to
// start. Empty buckets produce no row (sparse output).
func (r *EventRepository) Timeline(start, end float64) ([]TimelineBucket, error) {
	rows, err := r.db.Query(
		`SELECT CAST((time - ?) / 3600 AS INTEGER) AS bucket,
		        COUNT(*), AVG(score), AVG(response_time)
		 FROM logs WHERE time >= ? AND time <= ?
		 GROUP BY bucket ORDER BY bucket ASC`,
		start, start, end,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TimelineBucket
	for rows.Next() {
		var tb TimelineBucket
		var conf, resp sql.NullFloat64

		if err := rows.Scan(&tb.Bucket, &tb.Count, &conf, &resp); err != nil {
			return nil, err
		}

		tb.AvgConfidence = nf(conf)
		tb.AvgResponseTime = nf(resp)
		out = append(out, tb)
	}
	return out, rows.Err()
}

// AccuracyByGesture returns correctness counts per gesture, excluding
// UNKNOWN rows.
func (r *EventRepository) AccuracyByGesture() ([]GestureAccuracy, error) {
	rows, err := r.db.Query(
		`SELECT gesture, COUNT(*), SUM(is_correct), AVG(score)
		 FROM logs WHERE gesture != 'UNKNOWN'
		 GROUP BY gesture ORDER BY COUNT(*) DESC, gesture ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GestureAccuracy
	for rows.Next() {
		var ga GestureAccuracy
		var conf sql.NullFloat64

		if err := rows.Scan(&ga.Gesture, &ga.Total, &ga.Correct, &conf); err != nil {
			return nil, err
		}

		ga.AvgConfidence = nf(conf)
		out = append(out, ga)
	}
	return out, rows.Err()
}

// ConfidenceDistribution counts rows into the fixed confidence buckets,
// highest first: [0.9,1.0], [0.8,0.9), [0.7,0.8), [0.6,0.7), [0,0.6).
func (r *EventRepository) ConfidenceDistribution() ([5]int, error) {
	var d [5]int
	err := r.db.QueryRow(
		`SELECT COALESCE(SUM(CASE WHEN score >= 0.9 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN score >= 0.8 AND score < 0.9 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN score >= 0.7 AND score < 0.8 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN score >= 0.6 AND score < 0.7 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN score < 0.6 THEN 1 ELSE 0 END), 0)
		 FROM logs`,
	).Scan(&d[0], &d[1], &d[2], &d[3], &d[4])
	return d, err
}

// ResponseDistribution counts measured rows (response_time > 0) into
// the fixed latency buckets: <50, 50-100, 100-200, 200-500, >500 ms.
func (r *EventRepository) ResponseDistribution() ([5]int, error) {
	var d [5]int
	err := r.db.QueryRow(
		`SELECT COALESCE(SUM(CASE WHEN response_time < 50 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN response_time >= 50 AND response_time < 100 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN response_time >= 100 AND response_time < 200 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN response_time >= 200 AND response_time < 500 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN response_time >= 500 THEN 1 ELSE 0 END), 0)
		 FROM logs WHERE response_time > 0`,
	).Scan(&d[0], &d[1], &d[2], &d[3], &d[4])
	return d, err
}

// ResponseStatsSince aggregates measured response times for rows with
// time strictly after the given instant. Pass 0 to cover all rows.
func (r *EventRepository) ResponseStatsSince(since float64) (*ResponseStats, error) {
	var stats ResponseStats
	var avg, min, max sql.NullFloat64

	err := r.db.QueryRow(
		`SELECT COUNT(*), AVG(response_time), MIN(response_time), MAX(response_time)
		 FROM logs WHERE response_time > 0 AND time > ?`,
		since,
	).Scan(&stats.Count, &avg, &min, &max)
	if err != nil {
		return nil, err
	}

	stats.Avg = nf(avg)
	stats.Min = nf(min)
	stats.Max = nf(max)
	return &stats, nil
}
