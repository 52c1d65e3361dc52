package out

import (
	"context"

	positiondomain "folio/internal/modules/position/domain"
	"folio/internal/modules/reader/domain"
)

// Navigator is a source of locators for one open book.
type Navigator interface {
	Engine() string
	Kind() positiondomain.ReaderKind
	Pages() domain.PageInfo
	TableOfContents() []domain.TOCEntry
	Locate(ctx context.Context, page int) (domain.PageView, error)
	CurrentLocator(ctx context.Context) (domain.Locator, bool, error)
	Close() error
}

type NavigatorFactory interface {
	Open(ctx context.Context, book domain.BookRef) (Navigator, error)
}

type Ledger interface {
	Get(ctx context.Context, bookID, deviceID string) (positiondomain.ReadingPosition, bool, error)
	Save(ctx context.Context, bookID string, position positiondomain.ReadingPosition) error
}

type BookResolver interface {
	Resolve(ctx context.Context, bookID string) (domain.BookRef, error)
}
