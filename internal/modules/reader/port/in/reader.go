package in

import (
	"context"

	positiondomain "folio/internal/modules/position/domain"
	"folio/internal/modules/reader/domain"
	"folio/internal/modules/reader/dto"
)

// Adapter is the capability set every reader kind offers to its host.
type Adapter interface {
	BookID() string
	Kind() positiondomain.ReaderKind
	LocationDidChange(ctx context.Context, locator domain.Locator) positiondomain.ReadingPosition
	CurrentPosition() (positiondomain.ReadingPosition, bool)
	Flush(ctx context.Context) (positiondomain.ReadingPosition, bool)
}

// OpenedBook is a book with a live navigator and adapter.
type OpenedBook interface {
	Info() dto.BookInfo
	Adapter() Adapter
	GoToPage(ctx context.Context, page int) (dto.PageOutput, error)
	Close() error
}

type Usecase interface {
	Open(ctx context.Context, input dto.OpenInput) (OpenedBook, error)
	TableOfContents(ctx context.Context, bookID string) ([]dto.TOCEntry, error)
	Locate(ctx context.Context, input dto.LocateInput) (positiondomain.ReadingPosition, error)
	Kinds() []string
}
