package in

import (
	"context"

	"folio/internal/modules/position/dto"
	positionin "folio/internal/modules/position/port/in"
)

type CLIHandler struct {
	usecase positionin.Usecase
}

func NewCLIHandler(usecase positionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Show(ctx context.Context, bookID, deviceID string) (dto.Position, error) {
	return h.usecase.GetPosition(ctx, bookID, deviceID)
}

func (h CLIHandler) Latest(ctx context.Context, bookID string) (dto.Position, error) {
	return h.usecase.LatestPosition(ctx, bookID)
}

func (h CLIHandler) List(ctx context.Context, bookID string) ([]dto.Position, error) {
	return h.usecase.ListPositions(ctx, bookID)
}
