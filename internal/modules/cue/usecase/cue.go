package usecase

import (
	"context"

	"moodooro/internal/modules/cue/domain"
	"moodooro/internal/modules/cue/dto"
	cuein "moodooro/internal/modules/cue/port/in"
	"moodooro/internal/modules/cue/service"
)

type Interactor struct {
	svc *service.CueService
}

func NewInteractor(svc *service.CueService) cuein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Notify(ctx context.Context, event dto.Event) dto.Report {
	return i.svc.Notify(ctx, domain.Event{
		Kind:     domain.EventKind(event.Kind),
		Subject:  event.Subject,
		Duration: event.Duration,
		At:       event.At,
	})
}

func (i *Interactor) List(ctx context.Context) ([]dto.PluginInfo, error) {
	return i.svc.List(ctx)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}
