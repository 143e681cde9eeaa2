package out

import (
	"context"
	"time"

	"moodooro/internal/modules/mood/domain"
)

type Repository interface {
	Insert(ctx context.Context, entry domain.Entry) (int64, error)
	Update(ctx context.Context, entry domain.Entry) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
	Get(ctx context.Context, id int64) (domain.Entry, error)
	Find(ctx context.Context, filter Filter) ([]domain.Entry, error)
}

// Filter narrows entries, newest first. Zero time bounds are open; From is
// inclusive and To exclusive. Outcome restricts to entries linked to a
// session with that outcome.
type Filter struct {
	SessionID int64
	From      time.Time
	To        time.Time
	Outcome   string
}
