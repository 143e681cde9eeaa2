package in

import (
	"context"

	"moodooro/internal/modules/timer/dto"
)

// Usecase drives one timer. Transition methods must be called from a single
// goroutine; PersistSession, AttachMood and Notify only touch output ports
// and may run anywhere.
type Usecase interface {
	Snapshot() dto.Snapshot
	Configure(input dto.ConfigInput) error
	Start() (uint64, error)
	Tick(gen uint64) (dto.TickResult, error)
	Pause() error
	Reset()
	SaveOutcome(outcome string) (dto.SaveTicket, error)
	SessionSaved(result dto.SaveResult) bool
	RecordMood(value string) (dto.MoodTicket, error)
	SkipMood() error
	StartBreak() (uint64, error)

	PersistSession(ctx context.Context, ticket dto.SaveTicket) dto.SaveResult
	AttachMood(ctx context.Context, ticket dto.MoodTicket) error
	Notify(ctx context.Context, result dto.TickResult)
}
