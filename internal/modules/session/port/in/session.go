package in

import (
	"context"
	"time"

	"moodooro/internal/modules/session/dto"
	"moodooro/internal/platform/stream"
)

type Usecase interface {
	Record(ctx context.Context, input dto.RecordInput) (dto.SessionOutput, error)
	SetMood(ctx context.Context, id int64, mood string) error
	Get(ctx context.Context, id int64) (dto.SessionOutput, error)
	List(ctx context.Context, query dto.ListQuery) ([]dto.SessionOutput, error)
	Recent(ctx context.Context, limit int) ([]dto.SessionOutput, error)
	After(ctx context.Context, t time.Time) ([]dto.SessionOutput, error)
	ClearAll(ctx context.Context) (int64, error)
	WatchRecent(ctx context.Context, limit int) (<-chan stream.Result[[]dto.SessionOutput], error)
	WatchAfter(ctx context.Context, t time.Time) (<-chan stream.Result[[]dto.SessionOutput], error)
	Export(ctx context.Context, dir string) (dto.ExportOutput, error)
}
