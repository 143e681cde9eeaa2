package in

import (
	"context"
	"time"

	sessiondto "moodooro/internal/modules/session/dto"
	sessionin "moodooro/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// List returns up to limit sessions that ended within the last days days.
// Zero disables either bound.
func (h CLIHandler) List(ctx context.Context, now time.Time, limit, days int) ([]sessiondto.SessionOutput, error) {
	query := sessiondto.ListQuery{Limit: limit}
	if days > 0 {
		query.After = now.AddDate(0, 0, -days)
	}
	return h.usecase.List(ctx, query)
}

func (h CLIHandler) Show(ctx context.Context, id int64) (sessiondto.SessionOutput, error) {
	return h.usecase.Get(ctx, id)
}

func (h CLIHandler) SetMood(ctx context.Context, id int64, mood string) error {
	return h.usecase.SetMood(ctx, id, mood)
}

func (h CLIHandler) Clear(ctx context.Context) (int64, error) {
	return h.usecase.ClearAll(ctx)
}

func (h CLIHandler) Export(ctx context.Context, dir string) (sessiondto.ExportOutput, error) {
	return h.usecase.Export(ctx, dir)
}
