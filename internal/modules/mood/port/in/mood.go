package in

import (
	"context"
	"time"

	"moodooro/internal/modules/mood/dto"
	"moodooro/internal/platform/stream"
)

type Usecase interface {
	Add(ctx context.Context, input dto.AddInput) (dto.EntryOutput, error)
	Update(ctx context.Context, input dto.UpdateInput) (dto.EntryOutput, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
	Get(ctx context.Context, id int64) (dto.EntryOutput, error)
	List(ctx context.Context) ([]dto.EntryOutput, error)
	BySession(ctx context.Context, sessionID int64) ([]dto.EntryOutput, error)
	Between(ctx context.Context, from, to time.Time) ([]dto.EntryOutput, error)
	ByOutcome(ctx context.Context, outcome string) ([]dto.EntryOutput, error)
	WatchBetween(ctx context.Context, from, to time.Time) (<-chan stream.Result[[]dto.EntryOutput], error)
}
