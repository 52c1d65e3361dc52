package in

import (
	"context"

	"folio/internal/modules/position/dto"
)

type Usecase interface {
	GetPosition(ctx context.Context, bookID, deviceID string) (dto.Position, error)
	UpdatePosition(ctx context.Context, input dto.UpdatePositionInput) (dto.Position, error)
	ListPositions(ctx context.Context, bookID string) ([]dto.Position, error)
	LatestPosition(ctx context.Context, bookID string) (dto.Position, error)
	DeleteBook(ctx context.Context, bookID string) error
}
