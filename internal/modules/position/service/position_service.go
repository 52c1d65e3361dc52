package service

import (
	"context"
	"fmt"
	"strings"

	"folio/internal/modules/position/domain"
	positionout "folio/internal/modules/position/port/out"
	"folio/internal/platform/clock"
	apperrors "folio/internal/platform/errors"
)

type PositionService struct {
	clock clock.Clock
	store positionout.Store
}

func NewPositionService(clock clock.Clock, store positionout.Store) *PositionService {
	return &PositionService{clock: clock, store: store}
}

func (s *PositionService) Get(ctx context.Context, bookID, deviceID string) (domain.ReadingPosition, error) {
	if err := requireBook(bookID); err != nil {
		return domain.ReadingPosition{}, err
	}
	position, ok, err := s.store.Get(ctx, bookID, deviceID)
	if err != nil {
		return domain.ReadingPosition{}, err
	}
	if !ok {
		return domain.ReadingPosition{}, fmt.Errorf("%w: position for %s on %s", apperrors.ErrNotFound, bookID, deviceID)
	}
	return position, nil
}

// Update overwrites the entry for position.DeviceID only; other devices are untouched.
func (s *PositionService) Update(ctx context.Context, bookID string, position domain.ReadingPosition) (domain.ReadingPosition, error) {
	if err := requireBook(bookID); err != nil {
		return domain.ReadingPosition{}, err
	}
	position = position.Normalize()
	if err := position.Validate(); err != nil {
		return domain.ReadingPosition{}, err
	}
	if position.Timestamp <= 0 {
		position.Timestamp = clock.EpochSeconds(s.clock.Now())
	}
	if err := s.store.Upsert(ctx, bookID, position); err != nil {
		return domain.ReadingPosition{}, err
	}
	return position, nil
}

func (s *PositionService) List(ctx context.Context, bookID string) ([]domain.ReadingPosition, error) {
	if err := requireBook(bookID); err != nil {
		return nil, err
	}
	return s.store.List(ctx, bookID)
}

// Latest returns the most recently written position across all devices.
func (s *PositionService) Latest(ctx context.Context, bookID string) (domain.ReadingPosition, error) {
	positions, err := s.List(ctx, bookID)
	if err != nil {
		return domain.ReadingPosition{}, err
	}
	if len(positions) == 0 {
		return domain.ReadingPosition{}, fmt.Errorf("%w: no positions for %s", apperrors.ErrNotFound, bookID)
	}
	latest := positions[0]
	for _, position := range positions[1:] {
		if position.Timestamp > latest.Timestamp {
			latest = position
		}
	}
	return latest, nil
}

func (s *PositionService) DeleteBook(ctx context.Context, bookID string) error {
	if err := requireBook(bookID); err != nil {
		return err
	}
	return s.store.DeleteBook(ctx, bookID)
}

func requireBook(bookID string) error {
	if strings.TrimSpace(bookID) == "" {
		return fmt.Errorf("%w: book id is required", apperrors.ErrInvalidInput)
	}
	return nil
}
