package out

import (
	"context"

	positiondomain "folio/internal/modules/position/domain"
	"folio/internal/modules/session/domain"
)

// ReaderAdapter is the part of a reader adapter the shell drives.
type ReaderAdapter interface {
	BookID() string
	Kind() positiondomain.ReaderKind
	CurrentPosition() (positiondomain.ReadingPosition, bool)
	Flush(ctx context.Context) (positiondomain.ReadingPosition, bool)
}

type PositionSource interface {
	Get(ctx context.Context, bookID, deviceID string) (positiondomain.ReadingPosition, bool, error)
}

type SessionStore interface {
	Save(ctx context.Context, session domain.ReadingSession) (string, error)
	List(ctx context.Context, bookID string) ([]domain.ReadingSession, error)
}

type OpenSessionStore interface {
	SaveOpen(ctx context.Context, session domain.OpenSession) error
	LoadOpen(ctx context.Context, bookID, deviceID string) (domain.OpenSession, error)
	ClearOpen(ctx context.Context, bookID, deviceID string) error
}

// Publisher receives the terminal position of a dismissed reader.
type Publisher interface {
	Publish(ctx context.Context, published domain.PublishedPosition) error
}
