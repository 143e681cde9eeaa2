package sqlitedb

import (
	"context"
	"database/sql"
	"fmt"
)

type migration struct {
	name  string
	stmts []string
}

// migrations are additive only. Entry i moves the schema to version i+1.
// Added columns carry defaults so rows written by older versions read back
// filled in.
var migrations = []migration{
	{
		name: "create sessions and moods",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS study_sessions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  start_time_millis INTEGER NOT NULL,
  end_time_millis INTEGER NOT NULL,
  focus_duration_seconds INTEGER NOT NULL,
  break_duration_seconds INTEGER NOT NULL,
  subject TEXT,
  date_millis INTEGER NOT NULL
)`,
			`CREATE INDEX IF NOT EXISTS idx_study_sessions_end ON study_sessions(end_time_millis)`,
			`CREATE TABLE IF NOT EXISTS mood_entries (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  timestamp_millis INTEGER NOT NULL,
  mood_value TEXT NOT NULL,
  associated_session_id INTEGER NULL REFERENCES study_sessions(id) ON DELETE SET NULL,
  notes TEXT
)`,
			`CREATE INDEX IF NOT EXISTS idx_mood_entries_session ON mood_entries(associated_session_id)`,
			`CREATE INDEX IF NOT EXISTS idx_mood_entries_ts ON mood_entries(timestamp_millis)`,
		},
	},
	{
		name:  "add session outcome",
		stmts: []string{`ALTER TABLE study_sessions ADD COLUMN session_outcome TEXT NOT NULL DEFAULT ''`},
	},
	{
		name:  "add session mood",
		stmts: []string{`ALTER TABLE study_sessions ADD COLUMN mood TEXT`},
	},
}

// LatestVersion is the schema version Open migrates to.
func LatestVersion() int {
	return len(migrations)
}

func migrate(ctx context.Context, db *sql.DB, target int) error {
	current, err := userVersion(ctx, db)
	if err != nil {
		return err
	}
	if current > len(migrations) {
		return fmt.Errorf("schema version %d is newer than supported %d", current, len(migrations))
	}
	for v := current; v < target; v++ {
		m := migrations[v]
		sqlTx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", v+1, err)
		}
		for _, stmt := range m.stmts {
			if _, err := sqlTx.ExecContext(ctx, stmt); err != nil {
				_ = sqlTx.Rollback()
				return fmt.Errorf("migration %d (%s): %w", v+1, m.name, err)
			}
		}
		// PRAGMA does not take bind parameters.
		if _, err := sqlTx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
			_ = sqlTx.Rollback()
			return fmt.Errorf("set schema version %d: %w", v+1, err)
		}
		if err := sqlTx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", v+1, err)
		}
	}
	return nil
}

func userVersion(ctx context.Context, db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}
