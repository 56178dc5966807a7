package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// One row per release of the drawing gesture or uploaded canvas
		`CREATE TABLE IF NOT EXISTS attempts (
			id TEXT PRIMARY KEY,
			label TEXT NOT NULL,
			source TEXT NOT NULL CHECK(source IN ('live', 'upload')),
			center_x INTEGER NOT NULL DEFAULT 0,
			center_y INTEGER NOT NULL DEFAULT 0,
			area REAL NOT NULL DEFAULT 0,
			circularity REAL NOT NULL DEFAULT 0,
			aspect_ratio REAL NOT NULL DEFAULT 0,
			corners INTEGER NOT NULL DEFAULT 0,
			solidity REAL NOT NULL DEFAULT 0,
			deep_defects INTEGER NOT NULL DEFAULT 0,
			points INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Stroke points of live attempts, in drawing order
		`CREATE TABLE IF NOT EXISTS attempt_points (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			attempt_id TEXT NOT NULL REFERENCES attempts(id) ON DELETE CASCADE,
			sequence INTEGER NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_attempts_created_at ON attempts(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_label ON attempts(label)`,
		`CREATE INDEX IF NOT EXISTS idx_attempt_points_attempt_id ON attempt_points(attempt_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
