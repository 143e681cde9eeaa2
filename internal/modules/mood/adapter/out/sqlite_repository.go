package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"moodooro/internal/modules/mood/domain"
	moodout "moodooro/internal/modules/mood/port/out"
	apperrors "moodooro/internal/platform/errors"
	"moodooro/internal/platform/sqlitedb"
)

const entryColumns = `m.id, m.timestamp_millis, m.mood_value, m.associated_session_id, m.notes`

type SQLiteRepository struct {
	db *sqlitedb.DB
}

func NewSQLiteRepository(db *sqlitedb.DB) moodout.Repository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, entry domain.Entry) (int64, error) {
	res, err := r.db.Conn(ctx).ExecContext(ctx, `
INSERT INTO mood_entries (timestamp_millis, mood_value, associated_session_id, notes)
VALUES (?, ?, ?, ?)
`,
		entry.At.UnixMilli(),
		entry.Value,
		nullRef(entry.SessionID),
		nullString(entry.Note),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("session %d: %w", entry.SessionID.ID, apperrors.ErrNotFound)
		}
		return 0, fmt.Errorf("insert mood entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("mood entry id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, entry domain.Entry) error {
	res, err := r.db.Conn(ctx).ExecContext(ctx,
		`UPDATE mood_entries SET mood_value = ?, notes = ? WHERE id = ?`,
		entry.Value, nullString(entry.Note), entry.ID)
	if err != nil {
		return fmt.Errorf("update mood entry: %w", err)
	}
	return expectOne(res, entry.ID)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Conn(ctx).ExecContext(ctx, `DELETE FROM mood_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete mood entry: %w", err)
	}
	return expectOne(res, id)
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.Conn(ctx).ExecContext(ctx, `DELETE FROM mood_entries`)
	if err != nil {
		return 0, fmt.Errorf("delete mood entries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete mood entries: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id int64) (domain.Entry, error) {
	row := r.db.Conn(ctx).QueryRowContext(ctx, `SELECT `+entryColumns+` FROM mood_entries m WHERE m.id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Entry{}, fmt.Errorf("mood entry %d: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return domain.Entry{}, fmt.Errorf("get mood entry: %w", err)
	}
	return entry, nil
}

func (r *SQLiteRepository) Find(ctx context.Context, filter moodout.Filter) ([]domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM mood_entries m`
	var where []string
	var args []any
	if filter.Outcome != "" {
		query += ` JOIN study_sessions s ON s.id = m.associated_session_id`
		where = append(where, "s.session_outcome = ?")
		args = append(args, filter.Outcome)
	}
	if filter.SessionID > 0 {
		where = append(where, "m.associated_session_id = ?")
		args = append(args, filter.SessionID)
	}
	if !filter.From.IsZero() {
		where = append(where, "m.timestamp_millis >= ?")
		args = append(args, filter.From.UnixMilli())
	}
	if !filter.To.IsZero() {
		where = append(where, "m.timestamp_millis < ?")
		args = append(args, filter.To.UnixMilli())
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY m.timestamp_millis DESC, m.id DESC"

	rows, err := r.db.Conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query mood entries: %w", err)
	}
	defer rows.Close()

	out := []domain.Entry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan mood entry: %w", err)
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mood entries: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (domain.Entry, error) {
	var (
		e         domain.Entry
		at        int64
		sessionID sql.NullInt64
		note      sql.NullString
	)
	if err := row.Scan(&e.ID, &at, &e.Value, &sessionID, &note); err != nil {
		return domain.Entry{}, err
	}
	e.At = time.UnixMilli(at)
	if sessionID.Valid {
		e.SessionID = domain.SessionRef(sessionID.Int64)
	}
	e.Note = note.String
	return e, nil
}

func expectOne(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mood entry %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("mood entry %d: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func isForeignKeyViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY ||
		(code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqliteErr.Error(), "FOREIGN KEY"))
}

func nullRef(ref domain.Ref) sql.NullInt64 {
	return sql.NullInt64{Int64: ref.ID, Valid: ref.Valid}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
