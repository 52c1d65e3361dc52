package out

import (
	"context"

	"folio/internal/modules/engine/domain"
	readerdomain "folio/internal/modules/reader/domain"
)

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

type Host interface {
	CheckLifecycle(ctx context.Context, manifest domain.Manifest) error
	GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error)
	Dial(ctx context.Context, manifest domain.Manifest) (Conn, error)
}

// Conn is a running engine process; Close kills it.
type Conn interface {
	TableOfContents(ctx context.Context, bookPath string) ([]readerdomain.TOCEntry, error)
	PositionCount(ctx context.Context, bookPath string) (readerdomain.PageInfo, error)
	Locate(ctx context.Context, bookPath string, page int) (readerdomain.PageView, error)
	CurrentLocator(ctx context.Context, bookPath string) (readerdomain.Locator, bool, error)
	Close()
}
