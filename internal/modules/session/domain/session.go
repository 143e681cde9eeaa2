package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "moodooro/internal/platform/errors"
)

// SchemaVersion tags exported journal notes.
const SchemaVersion = 1

type Outcome string

const (
	OutcomeUnset      Outcome = ""
	OutcomeFocused    Outcome = "Focused"
	OutcomeDistracted Outcome = "Distracted"
)

// ParseOutcome accepts the outcome labels case-insensitively.
func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "focused":
		return OutcomeFocused, nil
	case "distracted":
		return OutcomeDistracted, nil
	default:
		return OutcomeUnset, fmt.Errorf("%w: unknown outcome %q", apperrors.ErrInvalidInput, s)
	}
}

// Session is one finished focus interval. Only Mood changes after insert.
type Session struct {
	ID            int64
	StartedAt     time.Time
	EndedAt       time.Time
	FocusDuration time.Duration
	BreakDuration time.Duration
	Subject       string
	Outcome       Outcome
	Date          time.Time
	Mood          string
}

func (s Session) ActualDuration() time.Duration {
	return s.EndedAt.Sub(s.StartedAt)
}

func (s Session) Validate() error {
	if s.StartedAt.IsZero() || s.EndedAt.IsZero() {
		return fmt.Errorf("%w: session start and end are required", apperrors.ErrInvalidInput)
	}
	if s.EndedAt.Before(s.StartedAt) {
		return fmt.Errorf("%w: session ends before it starts", apperrors.ErrInvalidInput)
	}
	if s.FocusDuration < 0 || s.BreakDuration < 0 {
		return fmt.Errorf("%w: durations must be non-negative", apperrors.ErrInvalidInput)
	}
	if s.Outcome != OutcomeFocused && s.Outcome != OutcomeDistracted {
		return fmt.Errorf("%w: outcome must be Focused or Distracted", apperrors.ErrInvalidInput)
	}
	return nil
}
