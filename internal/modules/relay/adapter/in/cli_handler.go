package in

import (
	"context"

	"folio/internal/modules/relay/dto"
	relayin "folio/internal/modules/relay/port/in"
)

type CLIHandler struct {
	usecase relayin.Usecase
}

func NewCLIHandler(usecase relayin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Push(ctx context.Context) (dto.PushReport, error) {
	return h.usecase.Push(ctx)
}

func (h CLIHandler) Pending(ctx context.Context) ([]dto.Entry, error) {
	return h.usecase.Pending(ctx)
}
