package out

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	enginein "folio/internal/modules/engine/port/in"
	positiondomain "folio/internal/modules/position/domain"
	"folio/internal/modules/reader/domain"
	readerout "folio/internal/modules/reader/port/out"
)

// EngineNavigator serves a book through an out-of-process engine.
type EngineNavigator struct {
	kind   positiondomain.ReaderKind
	handle enginein.BookHandle
	pages  domain.PageInfo
	toc    []domain.TOCEntry
}

func OpenEngine(ctx context.Context, handle enginein.BookHandle, kind positiondomain.ReaderKind) (readerout.Navigator, error) {
	pages, err := handle.PositionCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("engine position count: %w", err)
	}
	if pages.Count < 1 {
		return nil, fmt.Errorf("engine %s reported no pages", handle.Engine())
	}
	toc, err := handle.TableOfContents(ctx)
	if err != nil {
		return nil, fmt.Errorf("engine table of contents: %w", err)
	}
	return &EngineNavigator{kind: kind, handle: handle, pages: pages, toc: toc}, nil
}

func (n *EngineNavigator) Engine() string { return n.handle.Engine() }

func (n *EngineNavigator) Kind() positiondomain.ReaderKind { return n.kind }

func (n *EngineNavigator) Pages() domain.PageInfo { return n.pages }

func (n *EngineNavigator) TableOfContents() []domain.TOCEntry { return n.toc }

func (n *EngineNavigator) Locate(ctx context.Context, page int) (domain.PageView, error) {
	if page < 1 {
		page = 1
	}
	if page > n.pages.Count {
		page = n.pages.Count
	}
	return n.handle.Locate(ctx, page)
}

func (n *EngineNavigator) CurrentLocator(ctx context.Context) (domain.Locator, bool, error) {
	return n.handle.CurrentLocator(ctx)
}

func (n *EngineNavigator) Close() error {
	return n.handle.Close()
}

// EngineAwareFactory prefers a registered engine for the book kind and falls back to the local navigators.
type EngineAwareFactory struct {
	engines enginein.Usecase
	local   readerout.NavigatorFactory
	logger  hclog.Logger
}

func NewEngineAwareFactory(engines enginein.Usecase, local readerout.NavigatorFactory, logger hclog.Logger) readerout.NavigatorFactory {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &EngineAwareFactory{engines: engines, local: local, logger: logger}
}

func (f *EngineAwareFactory) Open(ctx context.Context, book domain.BookRef) (readerout.Navigator, error) {
	if f.engines != nil {
		nav, err := f.openEngine(ctx, book)
		if err != nil {
			f.logger.Warn("engine unavailable, using local navigator", "book", book.ID, "kind", book.Kind, "error", err)
		} else if nav != nil {
			return nav, nil
		}
	}
	return f.local.Open(ctx, book)
}

func (f *EngineAwareFactory) openEngine(ctx context.Context, book domain.BookRef) (readerout.Navigator, error) {
	info, ok, err := f.engines.EngineFor(ctx, string(book.Kind))
	if err != nil || !ok {
		return nil, err
	}
	handle, err := f.engines.Attach(ctx, info.Name, book.FilePath)
	if err != nil {
		return nil, err
	}
	nav, err := OpenEngine(ctx, handle, book.Kind)
	if err != nil {
		_ = handle.Close()
		return nil, err
	}
	f.logger.Debug("engine attached", "book", book.ID, "engine", info.Name)
	return nav, nil
}
