package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	positiondomain "folio/internal/modules/position/domain"
	"folio/internal/modules/shelf/domain"
	shelfout "folio/internal/modules/shelf/port/out"
	"folio/internal/platform/clock"
	apperrors "folio/internal/platform/errors"
	"folio/internal/platform/slug"
)

type ShelfService struct {
	clock clock.Clock
	store shelfout.BookStore
}

func NewShelfService(clock clock.Clock, store shelfout.BookStore) *ShelfService {
	return &ShelfService{clock: clock, store: store}
}

// Add registers a book file. The kind comes from the file extension unless given.
func (s *ShelfService) Add(ctx context.Context, filePath, title, kind string, authors []string) (domain.Book, error) {
	filePath = strings.TrimSpace(filePath)
	if filePath == "" {
		return domain.Book{}, fmt.Errorf("%w: file path is required", apperrors.ErrInvalidInput)
	}
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return domain.Book{}, fmt.Errorf("resolve book path: %w", err)
	}

	var readerKind positiondomain.ReaderKind
	if strings.TrimSpace(kind) != "" {
		readerKind, err = positiondomain.ParseKind(kind)
	} else {
		readerKind, err = positiondomain.KindFromPath(abs)
	}
	if err != nil {
		return domain.Book{}, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	}

	docs, err := s.store.List(ctx)
	if err != nil {
		return domain.Book{}, err
	}
	taken := make(map[string]bool, len(docs))
	for _, doc := range docs {
		if doc.Book.FilePath == abs {
			return domain.Book{}, fmt.Errorf("%w: %s is already on the shelf as %s", apperrors.ErrInvalidInput, abs, doc.Book.ID)
		}
		taken[doc.Book.ID] = true
	}

	now := s.clock.Now()
	book := domain.Book{
		ID:        slug.Unique(title, func(candidate string) bool { return taken[candidate] }),
		Title:     title,
		Kind:      readerKind,
		FilePath:  abs,
		Authors:   trimAll(authors),
		AddedAt:   now,
		UpdatedAt: now,
	}
	if err := book.Validate(); err != nil {
		return domain.Book{}, err
	}
	path, err := s.store.Save(ctx, domain.BookDocument{Book: book})
	if err != nil {
		return domain.Book{}, err
	}
	book.NotePath = path
	return book, nil
}

func (s *ShelfService) List(ctx context.Context) ([]domain.Book, error) {
	docs, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Book, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.Book)
	}
	return out, nil
}

func (s *ShelfService) Get(ctx context.Context, id string) (domain.Book, error) {
	doc, err := s.store.FindByID(ctx, id)
	if err != nil {
		return domain.Book{}, err
	}
	return doc.Book, nil
}

func (s *ShelfService) Remove(ctx context.Context, id string) error {
	if _, err := s.store.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	return nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
