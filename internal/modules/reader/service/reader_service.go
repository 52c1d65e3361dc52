package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	positiondomain "folio/internal/modules/position/domain"
	"folio/internal/modules/reader/domain"
	readerout "folio/internal/modules/reader/port/out"
	"folio/internal/platform/clock"
	apperrors "folio/internal/platform/errors"
)

type ReaderService struct {
	books      readerout.BookResolver
	navigators readerout.NavigatorFactory
	ledger     readerout.Ledger
	clock      clock.Clock
	logger     hclog.Logger
}

func NewReaderService(
	books readerout.BookResolver,
	navigators readerout.NavigatorFactory,
	ledger readerout.Ledger,
	clock clock.Clock,
	logger hclog.Logger,
) *ReaderService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &ReaderService{books: books, navigators: navigators, ledger: ledger, clock: clock, logger: logger}
}

// Session is an open book: its reference, navigator and adapter.
type Session struct {
	Book      domain.BookRef
	Navigator readerout.Navigator
	Adapter   *Adapter
}

// Open resolves the book, opens a navigator for it and seeds the adapter with the
// device's stored position, moving the navigator there without saving.
func (s *ReaderService) Open(ctx context.Context, bookID, deviceID string) (*Session, error) {
	if strings.TrimSpace(deviceID) == "" {
		return nil, fmt.Errorf("%w: device id is required", apperrors.ErrInvalidInput)
	}
	book, err := s.books.Resolve(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if err := book.Kind.Validate(); err != nil {
		return nil, err
	}
	nav, err := s.navigators.Open(ctx, book)
	if err != nil {
		return nil, fmt.Errorf("open navigator for %s: %w", book.ID, err)
	}

	adapter := NewAdapter(AdapterContext{
		BookID:    book.ID,
		DeviceID:  deviceID,
		Ledger:    s.ledger,
		Navigator: nav,
		Clock:     s.clock,
		Logger:    s.logger.Named(string(book.Kind)).With("book", book.ID),
	})

	stored, ok, err := s.ledger.Get(ctx, book.ID, deviceID)
	if err != nil {
		s.logger.Warn("stored position unavailable", "book", book.ID, "error", err)
	}
	if err == nil && ok && stored.Kind == book.Kind {
		adapter.Seed(stored)
		if _, err := nav.Locate(ctx, stored.Page); err != nil {
			s.logger.Debug("restore page failed", "book", book.ID, "page", stored.Page, "error", err)
		}
	}
	s.logger.Debug("book opened", "book", book.ID, "kind", book.Kind, "engine", nav.Engine(), "pages", nav.Pages().Count)
	return &Session{Book: book, Navigator: nav, Adapter: adapter}, nil
}

// GoToPage moves the navigator and reports the resulting locator to the adapter.
func (s *ReaderService) GoToPage(ctx context.Context, session *Session, page int) (positiondomain.ReadingPosition, domain.PageView, error) {
	view, err := session.Navigator.Locate(ctx, page)
	if err != nil {
		return positiondomain.ReadingPosition{}, domain.PageView{}, err
	}
	return session.Adapter.LocationDidChange(ctx, view.Locator), view, nil
}

func (s *ReaderService) TableOfContents(ctx context.Context, bookID string) ([]domain.TOCEntry, error) {
	book, err := s.books.Resolve(ctx, bookID)
	if err != nil {
		return nil, err
	}
	nav, err := s.navigators.Open(ctx, book)
	if err != nil {
		return nil, fmt.Errorf("open navigator for %s: %w", book.ID, err)
	}
	defer func() { _ = nav.Close() }()
	return nav.TableOfContents(), nil
}

// Locate feeds a single locator change through a freshly opened adapter.
func (s *ReaderService) Locate(ctx context.Context, bookID, deviceID string, locator domain.Locator) (positiondomain.ReadingPosition, error) {
	session, err := s.Open(ctx, bookID, deviceID)
	if err != nil {
		return positiondomain.ReadingPosition{}, err
	}
	defer func() { _ = session.Navigator.Close() }()
	return session.Adapter.LocationDidChange(ctx, locator), nil
}

func (s *ReaderService) Kinds() []positiondomain.ReaderKind {
	return positiondomain.Kinds()
}
