package in

import (
	"context"

	"moodooro/internal/modules/cue/dto"
	cuein "moodooro/internal/modules/cue/port/in"
)

type CLIHandler struct {
	usecase cuein.Usecase
}

func NewCLIHandler(usecase cuein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]dto.PluginInfo, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return h.usecase.Doctor(ctx)
}
