package in

import (
	"context"

	insightdto "moodooro/internal/modules/insight/dto"
	insightin "moodooro/internal/modules/insight/port/in"
)

type CLIHandler struct {
	usecase insightin.Usecase
}

func NewCLIHandler(usecase insightin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Weekly(ctx context.Context) (insightdto.WeeklyStats, error) {
	return h.usecase.Weekly(ctx)
}

func (h CLIHandler) Dashboard(ctx context.Context) (insightdto.Dashboard, error) {
	return h.usecase.Dashboard(ctx)
}
