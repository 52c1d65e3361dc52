package in

import (
	"context"

	"folio/internal/modules/engine/dto"
	readerdomain "folio/internal/modules/reader/domain"
)

// BookHandle is one book served by a running engine.
type BookHandle interface {
	Engine() string
	TableOfContents(ctx context.Context) ([]readerdomain.TOCEntry, error)
	PositionCount(ctx context.Context) (readerdomain.PageInfo, error)
	Locate(ctx context.Context, page int) (readerdomain.PageView, error)
	CurrentLocator(ctx context.Context) (readerdomain.Locator, bool, error)
	Close() error
}

type Usecase interface {
	List(ctx context.Context) ([]dto.EngineInfo, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
	EngineFor(ctx context.Context, kind string) (dto.EngineInfo, bool, error)
	Attach(ctx context.Context, engineName, bookPath string) (BookHandle, error)
}
