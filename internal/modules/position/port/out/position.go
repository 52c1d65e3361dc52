package out

import (
	"context"

	"folio/internal/modules/position/domain"
)

// Store keeps one position per (book, device).
type Store interface {
	Get(ctx context.Context, bookID, deviceID string) (domain.ReadingPosition, bool, error)
	Upsert(ctx context.Context, bookID string, position domain.ReadingPosition) error
	List(ctx context.Context, bookID string) ([]domain.ReadingPosition, error)
	DeleteBook(ctx context.Context, bookID string) error
}
