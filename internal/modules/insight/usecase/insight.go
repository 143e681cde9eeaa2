package usecase

import (
	"context"

	insightdto "moodooro/internal/modules/insight/dto"
	insightin "moodooro/internal/modules/insight/port/in"
	"moodooro/internal/modules/insight/service"
)

type Interactor struct {
	svc *service.InsightService
}

func NewInteractor(svc *service.InsightService) insightin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Weekly(ctx context.Context) (insightdto.WeeklyStats, error) {
	return i.svc.Weekly(ctx)
}

func (i *Interactor) WatchWeekly(ctx context.Context) (<-chan insightdto.WeeklyStats, error) {
	return i.svc.WatchWeekly(ctx)
}

func (i *Interactor) Dashboard(ctx context.Context) (insightdto.Dashboard, error) {
	return i.svc.Dashboard(ctx)
}

func (i *Interactor) WatchDashboard(ctx context.Context) (<-chan insightdto.Dashboard, error) {
	return i.svc.WatchDashboard(ctx)
}
