package out

import (
	"context"
	"fmt"

	mooddto "moodooro/internal/modules/mood/dto"
	moodin "moodooro/internal/modules/mood/port/in"
	sessiondto "moodooro/internal/modules/session/dto"
	sessionin "moodooro/internal/modules/session/port/in"
	timerdto "moodooro/internal/modules/timer/dto"
	timerout "moodooro/internal/modules/timer/port/out"
	"moodooro/internal/platform/tx"
)

// Recorder persists timer results through the session and mood modules.
type Recorder struct {
	sessions sessionin.Usecase
	moods    moodin.Usecase
	tx       tx.Manager
}

func NewRecorder(sessions sessionin.Usecase, moods moodin.Usecase, txm tx.Manager) timerout.SessionRecorder {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	return &Recorder{sessions: sessions, moods: moods, tx: txm}
}

func (r *Recorder) Record(ctx context.Context, ticket timerdto.SaveTicket) (int64, error) {
	out, err := r.sessions.Record(ctx, sessiondto.RecordInput{
		StartedAt:     ticket.StartedAt,
		EndedAt:       ticket.EndedAt,
		FocusDuration: ticket.Focus,
		BreakDuration: ticket.Break,
		Subject:       ticket.Subject,
		Outcome:       ticket.Outcome,
	})
	if err != nil {
		return 0, err
	}
	return out.ID, nil
}

// AttachMood sets the session's mood and logs a linked mood entry in one
// transaction.
func (r *Recorder) AttachMood(ctx context.Context, sessionID int64, value string) error {
	return r.tx.Within(ctx, func(ctx context.Context) error {
		if err := r.sessions.SetMood(ctx, sessionID, value); err != nil {
			return fmt.Errorf("set session mood: %w", err)
		}
		if r.moods == nil {
			return nil
		}
		if _, err := r.moods.Add(ctx, mooddto.AddInput{Value: value, SessionID: sessionID}); err != nil {
			return fmt.Errorf("add mood entry: %w", err)
		}
		return nil
	})
}
