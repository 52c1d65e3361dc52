package usecase

import (
	"context"
	"sync"

	positiondomain "folio/internal/modules/position/domain"
	"folio/internal/modules/reader/domain"
	"folio/internal/modules/reader/dto"
	readerin "folio/internal/modules/reader/port/in"
	"folio/internal/modules/reader/service"
)

type Interactor struct {
	svc *service.ReaderService
}

func NewInteractor(svc *service.ReaderService) readerin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Open(ctx context.Context, input dto.OpenInput) (readerin.OpenedBook, error) {
	session, err := i.svc.Open(ctx, input.BookID, input.DeviceID)
	if err != nil {
		return nil, err
	}
	return &openedBook{svc: i.svc, session: session}, nil
}

func (i *Interactor) TableOfContents(ctx context.Context, bookID string) ([]dto.TOCEntry, error) {
	entries, err := i.svc.TableOfContents(ctx, bookID)
	if err != nil {
		return nil, err
	}
	out := []dto.TOCEntry{}
	domain.Walk(entries, func(entry domain.TOCEntry, depth int) {
		out = append(out, dto.TOCEntry{Title: entry.Title, Href: entry.Href, Page: entry.Page, Depth: depth})
	})
	return out, nil
}

func (i *Interactor) Locate(ctx context.Context, input dto.LocateInput) (positiondomain.ReadingPosition, error) {
	locator := domain.Locator{Href: input.Href, Title: input.Title}
	if input.Fragment != "" {
		locator.Locations.Fragments = []string{input.Fragment}
	}
	if input.Position > 0 {
		locator.Locations.Position = domain.Int(input.Position)
	}
	if input.HasProgression {
		locator.Locations.Progression = domain.Float(input.Progression)
	}
	if input.HasTotal {
		locator.Locations.TotalProgression = domain.Float(input.TotalProgression)
	}
	return i.svc.Locate(ctx, input.BookID, input.DeviceID, locator)
}

func (i *Interactor) Kinds() []string {
	kinds := i.svc.Kinds()
	out := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		out = append(out, string(kind))
	}
	return out
}

type openedBook struct {
	svc     *service.ReaderService
	session *service.Session
	once    sync.Once
	err     error
}

func (b *openedBook) Info() dto.BookInfo {
	return dto.BookInfo{
		BookID:   b.session.Book.ID,
		Title:    b.session.Book.Title,
		Kind:     string(b.session.Book.Kind),
		FilePath: b.session.Book.FilePath,
		Pages:    b.session.Navigator.Pages().Count,
		Engine:   b.session.Navigator.Engine(),
	}
}

func (b *openedBook) Adapter() readerin.Adapter {
	return b.session.Adapter
}

func (b *openedBook) GoToPage(ctx context.Context, page int) (dto.PageOutput, error) {
	position, view, err := b.svc.GoToPage(ctx, b.session, page)
	if err != nil {
		return dto.PageOutput{}, err
	}
	return dto.PageOutput{
		Page:         position.Page,
		MaxPage:      position.MaxPage,
		ChapterTitle: position.ChapterTitle,
		Text:         view.Text,
		Progress:     position.TotalProgress,
	}, nil
}

func (b *openedBook) Close() error {
	b.once.Do(func() { b.err = b.session.Navigator.Close() })
	return b.err
}
