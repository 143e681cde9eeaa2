package in

import (
	"context"

	"moodooro/internal/modules/cue/dto"
)

type Usecase interface {
	Notify(ctx context.Context, event dto.Event) dto.Report
	List(ctx context.Context) ([]dto.PluginInfo, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
}
