package out

import (
	"context"

	positiondomain "folio/internal/modules/position/domain"
	"folio/internal/modules/relay/domain"
)

type Outbox interface {
	Append(ctx context.Context, entry domain.Entry) error
	Pending(ctx context.Context) ([]domain.Entry, error)
	// Settle drops pushed entries and stores the updated failed ones; entries appended meanwhile are kept.
	Settle(ctx context.Context, pushed []string, failed []domain.Entry) error
}

type Remote interface {
	PutPosition(ctx context.Context, bookID string, position positiondomain.ReadingPosition) error
}
