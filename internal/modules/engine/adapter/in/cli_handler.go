package in

import (
	"context"

	"folio/internal/modules/engine/dto"
	enginein "folio/internal/modules/engine/port/in"
)

type CLIHandler struct {
	usecase enginein.Usecase
}

func NewCLIHandler(usecase enginein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]dto.EngineInfo, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return h.usecase.Doctor(ctx)
}
