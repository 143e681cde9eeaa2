package out

import (
	"context"
	"time"

	"moodooro/internal/modules/session/domain"
)

type Repository interface {
	Insert(ctx context.Context, session domain.Session) (int64, error)
	UpdateMood(ctx context.Context, id int64, mood string) error
	Get(ctx context.Context, id int64) (domain.Session, error)
	Find(ctx context.Context, filter Filter) ([]domain.Session, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// Filter bounds sessions by end time, newest first.
type Filter struct {
	After  time.Time
	Before time.Time
	Limit  int
}

type Journal interface {
	WriteSession(ctx context.Context, dir string, session domain.Session) (string, error)
	WriteSummary(ctx context.Context, dir string, sessions []domain.Session) (string, error)
}
