package usecase

import (
	"context"

	"folio/internal/modules/position/domain"
	"folio/internal/modules/position/dto"
	positionin "folio/internal/modules/position/port/in"
	"folio/internal/modules/position/service"
)

type Interactor struct {
	svc *service.PositionService
}

func NewInteractor(svc *service.PositionService) positionin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) GetPosition(ctx context.Context, bookID, deviceID string) (dto.Position, error) {
	position, err := i.svc.Get(ctx, bookID, deviceID)
	if err != nil {
		return dto.Position{}, err
	}
	return toOutput(bookID, position), nil
}

func (i *Interactor) UpdatePosition(ctx context.Context, input dto.UpdatePositionInput) (dto.Position, error) {
	position, err := i.svc.Update(ctx, input.BookID, input.Position.Domain())
	if err != nil {
		return dto.Position{}, err
	}
	return toOutput(input.BookID, position), nil
}

func (i *Interactor) ListPositions(ctx context.Context, bookID string) ([]dto.Position, error) {
	positions, err := i.svc.List(ctx, bookID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.Position, 0, len(positions))
	for _, position := range positions {
		out = append(out, toOutput(bookID, position))
	}
	return out, nil
}

func (i *Interactor) LatestPosition(ctx context.Context, bookID string) (dto.Position, error) {
	position, err := i.svc.Latest(ctx, bookID)
	if err != nil {
		return dto.Position{}, err
	}
	return toOutput(bookID, position), nil
}

func (i *Interactor) DeleteBook(ctx context.Context, bookID string) error {
	return i.svc.DeleteBook(ctx, bookID)
}

func toOutput(bookID string, position domain.ReadingPosition) dto.Position {
	out := dto.FromDomain(position)
	out.BookID = bookID
	return out
}
