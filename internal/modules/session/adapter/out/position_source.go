package out

import (
	"context"
	"errors"

	positiondomain "folio/internal/modules/position/domain"
	positionin "folio/internal/modules/position/port/in"
	sessionout "folio/internal/modules/session/port/out"
	apperrors "folio/internal/platform/errors"
)

// LedgerPositionSource reads start positions from the position ledger.
type LedgerPositionSource struct {
	positions positionin.Usecase
}

func NewLedgerPositionSource(positions positionin.Usecase) sessionout.PositionSource {
	return &LedgerPositionSource{positions: positions}
}

func (s *LedgerPositionSource) Get(ctx context.Context, bookID, deviceID string) (positiondomain.ReadingPosition, bool, error) {
	pos, err := s.positions.GetPosition(ctx, bookID, deviceID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return positiondomain.ReadingPosition{}, false, nil
	}
	if err != nil {
		return positiondomain.ReadingPosition{}, false, err
	}
	return pos.Domain(), true, nil
}
