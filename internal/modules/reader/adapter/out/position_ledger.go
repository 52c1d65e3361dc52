package out

import (
	"context"
	"errors"

	positiondomain "folio/internal/modules/position/domain"
	positiondto "folio/internal/modules/position/dto"
	positionin "folio/internal/modules/position/port/in"
	readerout "folio/internal/modules/reader/port/out"
	apperrors "folio/internal/platform/errors"
)

// PositionLedger writes adapter positions through the position module.
type PositionLedger struct {
	positions positionin.Usecase
}

func NewPositionLedger(positions positionin.Usecase) readerout.Ledger {
	return &PositionLedger{positions: positions}
}

func (l *PositionLedger) Get(ctx context.Context, bookID, deviceID string) (positiondomain.ReadingPosition, bool, error) {
	out, err := l.positions.GetPosition(ctx, bookID, deviceID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return positiondomain.ReadingPosition{}, false, nil
	}
	if err != nil {
		return positiondomain.ReadingPosition{}, false, err
	}
	return out.Domain(), true, nil
}

func (l *PositionLedger) Save(ctx context.Context, bookID string, position positiondomain.ReadingPosition) error {
	_, err := l.positions.UpdatePosition(ctx, positiondto.UpdatePositionInput{BookID: bookID, Position: positiondto.FromDomain(position)})
	return err
}
