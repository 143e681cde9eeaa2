package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"moodooro/internal/modules/session/domain"
	sessionout "moodooro/internal/modules/session/port/out"
	apperrors "moodooro/internal/platform/errors"
	"moodooro/internal/platform/sqlitedb"
)

const sessionColumns = `id, start_time_millis, end_time_millis, focus_duration_seconds, break_duration_seconds,
  subject, date_millis, session_outcome, mood`

type SQLiteRepository struct {
	db *sqlitedb.DB
}

func NewSQLiteRepository(db *sqlitedb.DB) sessionout.Repository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, session domain.Session) (int64, error) {
	const stmt = `
INSERT INTO study_sessions (start_time_millis, end_time_millis, focus_duration_seconds, break_duration_seconds,
  subject, date_millis, session_outcome, mood)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`
	res, err := r.db.Conn(ctx).ExecContext(ctx, stmt,
		session.StartedAt.UnixMilli(),
		session.EndedAt.UnixMilli(),
		int64(session.FocusDuration/time.Second),
		int64(session.BreakDuration/time.Second),
		nullString(session.Subject),
		session.Date.UnixMilli(),
		string(session.Outcome),
		nullString(session.Mood),
	)
	if err != nil {
		return 0, fmt.Errorf("insert session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("session id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) UpdateMood(ctx context.Context, id int64, mood string) error {
	res, err := r.db.Conn(ctx).ExecContext(ctx, `UPDATE study_sessions SET mood = ? WHERE id = ?`, mood, id)
	if err != nil {
		return fmt.Errorf("update session mood: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session mood: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session %d: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id int64) (domain.Session, error) {
	row := r.db.Conn(ctx).QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM study_sessions WHERE id = ?`, id)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, fmt.Errorf("session %d: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

func (r *SQLiteRepository) Find(ctx context.Context, filter sessionout.Filter) ([]domain.Session, error) {
	var where []string
	var args []any
	if !filter.After.IsZero() {
		where = append(where, "end_time_millis >= ?")
		args = append(args, filter.After.UnixMilli())
	}
	if !filter.Before.IsZero() {
		where = append(where, "end_time_millis < ?")
		args = append(args, filter.Before.UnixMilli())
	}
	query := `SELECT ` + sessionColumns + ` FROM study_sessions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY end_time_millis DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.db.Conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	out := []domain.Session{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.Conn(ctx).ExecContext(ctx, `DELETE FROM study_sessions`)
	if err != nil {
		return 0, fmt.Errorf("delete sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete sessions: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (domain.Session, error) {
	var (
		s                  domain.Session
		start, end, date   int64
		focusSec, breakSec int64
		subject, mood      sql.NullString
		outcome            string
	)
	if err := row.Scan(&s.ID, &start, &end, &focusSec, &breakSec, &subject, &date, &outcome, &mood); err != nil {
		return domain.Session{}, err
	}
	s.StartedAt = time.UnixMilli(start)
	s.EndedAt = time.UnixMilli(end)
	s.FocusDuration = time.Duration(focusSec) * time.Second
	s.BreakDuration = time.Duration(breakSec) * time.Second
	s.Subject = subject.String
	s.Date = time.UnixMilli(date)
	s.Outcome = domain.Outcome(outcome)
	s.Mood = mood.String
	return s, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
