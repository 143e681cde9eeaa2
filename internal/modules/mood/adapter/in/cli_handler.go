package in

import (
	"context"
	"time"

	mooddto "moodooro/internal/modules/mood/dto"
	moodin "moodooro/internal/modules/mood/port/in"
)

type CLIHandler struct {
	usecase moodin.Usecase
}

func NewCLIHandler(usecase moodin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Add(ctx context.Context, value string, sessionID int64, note string) (mooddto.EntryOutput, error) {
	return h.usecase.Add(ctx, mooddto.AddInput{Value: value, SessionID: sessionID, Note: note})
}

// ListQuery selects what List shows. Outcome takes precedence over
// SessionID, which takes precedence over Days.
type ListQuery struct {
	SessionID int64
	Days      int
	Outcome   string
}

func (h CLIHandler) List(ctx context.Context, now time.Time, q ListQuery) ([]mooddto.EntryOutput, error) {
	switch {
	case q.Outcome != "":
		return h.usecase.ByOutcome(ctx, q.Outcome)
	case q.SessionID > 0:
		return h.usecase.BySession(ctx, q.SessionID)
	case q.Days > 0:
		return h.usecase.Between(ctx, now.AddDate(0, 0, -q.Days), time.Time{})
	default:
		return h.usecase.List(ctx)
	}
}

func (h CLIHandler) Edit(ctx context.Context, id int64, value, note *string) (mooddto.EntryOutput, error) {
	return h.usecase.Update(ctx, mooddto.UpdateInput{ID: id, Value: value, Note: note})
}

func (h CLIHandler) Delete(ctx context.Context, id int64) error {
	return h.usecase.Delete(ctx, id)
}

func (h CLIHandler) Clear(ctx context.Context) (int64, error) {
	return h.usecase.DeleteAll(ctx)
}
