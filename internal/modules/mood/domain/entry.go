package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "moodooro/internal/platform/errors"
)

// Ref is an optional reference to a study session.
type Ref struct {
	Valid bool
	ID    int64
}

func SessionRef(id int64) Ref {
	return Ref{Valid: true, ID: id}
}

func (r Ref) String() string {
	if !r.Valid {
		return "-"
	}
	return fmt.Sprintf("%d", r.ID)
}

// Entry is a mood label recorded at a point in time, optionally tied to the
// session it was recorded for.
type Entry struct {
	ID        int64
	At        time.Time
	Value     string
	SessionID Ref
	Note      string
}

// Normalize trims the free-form fields in place.
func (e *Entry) Normalize() {
	e.Value = strings.TrimSpace(e.Value)
	e.Note = strings.TrimSpace(e.Note)
}

func (e Entry) Validate() error {
	if e.At.IsZero() {
		return fmt.Errorf("%w: mood timestamp is required", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(e.Value) == "" {
		return fmt.Errorf("%w: mood value is required", apperrors.ErrInvalidInput)
	}
	if e.SessionID.Valid && e.SessionID.ID <= 0 {
		return fmt.Errorf("%w: session id must be positive", apperrors.ErrInvalidInput)
	}
	return nil
}
