package in

import (
	"context"

	"moodooro/internal/modules/insight/dto"
)

// Usecase serves derived statistics. Watch channels close when ctx ends
// and deliver error states instead of failing.
type Usecase interface {
	Weekly(ctx context.Context) (dto.WeeklyStats, error)
	WatchWeekly(ctx context.Context) (<-chan dto.WeeklyStats, error)
	Dashboard(ctx context.Context) (dto.Dashboard, error)
	WatchDashboard(ctx context.Context) (<-chan dto.Dashboard, error)
}
