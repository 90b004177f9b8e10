package store

// runMigrations executes all database migrations.
// The logs table layout is kept compatible with data exported by
// earlier versions of the gesture control backend.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Logs table - the append-only gesture event log
		`CREATE TABLE IF NOT EXISTS logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			time REAL NOT NULL,
			gesture TEXT NOT NULL,
			command TEXT NOT NULL,
			score REAL NOT NULL,
			response_time REAL NOT NULL DEFAULT 0.0,
			session_id TEXT NOT NULL DEFAULT 'default',
			is_correct INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Indexes for time-ordered listing and grouped analytics
		`CREATE INDEX IF NOT EXISTS idx_logs_time ON logs(time DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_logs_gesture ON logs(gesture)`,
		`CREATE INDEX IF NOT EXISTS idx_logs_session ON logs(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
