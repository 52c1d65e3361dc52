package service

import (
	"context"

	"github.com/hashicorp/go-hclog"

	positiondomain "folio/internal/modules/position/domain"
	"folio/internal/modules/reader/domain"
	readerout "folio/internal/modules/reader/port/out"
	"folio/internal/platform/clock"
)

// AdapterContext is everything an adapter needs, injected at construction.
type AdapterContext struct {
	BookID    string
	DeviceID  string
	Ledger    readerout.Ledger
	Navigator readerout.Navigator
	Clock     clock.Clock
	Logger    hclog.Logger
}

// Adapter turns navigator locator changes into ledger writes for one book.
type Adapter struct {
	ctx   AdapterContext
	kind  positiondomain.ReaderKind
	toc   []domain.TOCEntry
	pages domain.PageInfo

	last    positiondomain.ReadingPosition
	hasLast bool
}

func NewAdapter(actx AdapterContext) *Adapter {
	if actx.Logger == nil {
		actx.Logger = hclog.NewNullLogger()
	}
	if actx.Clock == nil {
		actx.Clock = clock.SystemClock{}
	}
	return &Adapter{
		ctx:   actx,
		kind:  actx.Navigator.Kind(),
		toc:   actx.Navigator.TableOfContents(),
		pages: actx.Navigator.Pages(),
	}
}

func (a *Adapter) BookID() string { return a.ctx.BookID }

func (a *Adapter) Kind() positiondomain.ReaderKind { return a.kind }

// Seed remembers a stored position without writing it back.
func (a *Adapter) Seed(position positiondomain.ReadingPosition) {
	a.last, a.hasLast = position, true
}

func (a *Adapter) LocationDidChange(ctx context.Context, locator domain.Locator) positiondomain.ReadingPosition {
	position := domain.MapLocator(domain.MapInput{
		Kind:      a.kind,
		DeviceID:  a.ctx.DeviceID,
		TOC:       a.toc,
		Pages:     a.pages,
		Timestamp: clock.EpochSeconds(a.ctx.Clock.Now()),
	}, locator)
	a.last, a.hasLast = position, true
	a.save(ctx, position)
	return position
}

func (a *Adapter) CurrentPosition() (positiondomain.ReadingPosition, bool) {
	return a.last, a.hasLast
}

// Flush recomputes the position from the navigator's current locator and saves it.
// When the navigator has nothing, the remembered position is saved again.
func (a *Adapter) Flush(ctx context.Context) (positiondomain.ReadingPosition, bool) {
	locator, ok, err := a.ctx.Navigator.CurrentLocator(ctx)
	if err != nil {
		a.ctx.Logger.Warn("current locator unavailable", "book", a.ctx.BookID, "error", err)
	}
	if err == nil && ok {
		return a.LocationDidChange(ctx, locator), true
	}
	if !a.hasLast {
		return positiondomain.ReadingPosition{}, false
	}
	a.last.Timestamp = clock.EpochSeconds(a.ctx.Clock.Now())
	a.save(ctx, a.last)
	return a.last, true
}

func (a *Adapter) save(ctx context.Context, position positiondomain.ReadingPosition) {
	if a.ctx.Ledger == nil {
		return
	}
	if err := a.ctx.Ledger.Save(ctx, a.ctx.BookID, position); err != nil {
		a.ctx.Logger.Warn("ledger write failed", "book", a.ctx.BookID, "device", a.ctx.DeviceID, "error", err)
		return
	}
	a.ctx.Logger.Trace("position saved", "book", a.ctx.BookID, "page", position.Page, "chapter", position.ChapterTitle)
}
