package store

import "database/sql"

// Event represents a single gesture event row in the log.
// Rows are immutable once written; only the retention sweeper removes them.
type Event struct {
	ID           int64
	Time         float64
	Gesture      string
	Command      string
	Score        float64
	ResponseTime float64
	SessionID    string
	IsCorrect    bool
	CreatedAt    string
}

// EventRepository provides append and query operations for the event log.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Insert appends a new event row. The store assigns the row id and the
// created_at insertion timestamp; both are immutable afterwards.
func (r *EventRepository) Insert(e *Event) error {
	if e.SessionID == "" {
		e.SessionID = "default"
	}

	isCorrect := 0
	if e.IsCorrect {
		isCorrect = 1
	}

	result, err := r.db.Exec(
		`INSERT INTO logs (time, gesture, command, score, response_time, session_id, is_correct)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Time, e.Gesture, e.Command, e.Score, e.ResponseTime, e.SessionID, isCorrect,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id

	return nil
}

// List retrieves the most recent events, newest first. The row id is
// the freshness tiebreaker when event times collide.
func (r *EventRepository) List(limit int) ([]*Event, error) {
	rows, err := r.db.Query(
		`SELECT id, time, gesture, command, score, response_time, session_id, is_correct, created_at
		 FROM logs ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		var isCorrect int

		err := rows.Scan(&e.ID, &e.Time, &e.Gesture, &e.Command, &e.Score,
			&e.ResponseTime, &e.SessionID, &isCorrect, &e.CreatedAt)
		if err != nil {
			return nil, err
		}

		e.IsCorrect = isCorrect != 0
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// Count returns the total number of event rows.
func (r *EventRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM logs`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// CountSince returns the number of rows with time strictly after the
// given instant.
func (r *EventRepository) CountSince(since float64) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM logs WHERE time > ?`, since).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteBefore removes all rows with time strictly before the cutoff
// and returns how many were deleted.
func (r *EventRepository) DeleteBefore(cutoff float64) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM logs WHERE time < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
