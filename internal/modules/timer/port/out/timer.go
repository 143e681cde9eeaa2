package out

import (
	"context"

	cuedto "moodooro/internal/modules/cue/dto"
	"moodooro/internal/modules/timer/dto"
)

type SessionRecorder interface {
	Record(ctx context.Context, ticket dto.SaveTicket) (int64, error)
	AttachMood(ctx context.Context, sessionID int64, value string) error
}

type Notifier interface {
	Notify(ctx context.Context, event cuedto.Event) cuedto.Report
}
