package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	positionin "folio/internal/modules/position/port/in"
	"folio/internal/modules/shelf/domain"
	"folio/internal/modules/shelf/dto"
	shelfin "folio/internal/modules/shelf/port/in"
	"folio/internal/modules/shelf/service"
	apperrors "folio/internal/platform/errors"
)

type Interactor struct {
	svc    *service.ShelfService
	ledger positionin.Usecase
}

func NewInteractor(svc *service.ShelfService, ledger positionin.Usecase) shelfin.Usecase {
	return &Interactor{svc: svc, ledger: ledger}
}

func (i *Interactor) AddBook(ctx context.Context, input dto.AddBookInput) (dto.BookOutput, error) {
	book, err := i.svc.Add(ctx, input.Path, input.Title, input.Kind, input.Authors)
	if err != nil {
		return dto.BookOutput{}, err
	}
	return toOutput(book), nil
}

func (i *Interactor) ListBooks(ctx context.Context) ([]dto.BookOutput, error) {
	books, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BookOutput, 0, len(books))
	for _, book := range books {
		out = append(out, toOutput(book))
	}
	return out, nil
}

func (i *Interactor) GetBook(ctx context.Context, id string) (dto.BookDetailOutput, error) {
	book, err := i.svc.Get(ctx, id)
	if err != nil {
		return dto.BookDetailOutput{}, err
	}
	detail := dto.BookDetailOutput{
		ID:       book.ID,
		Title:    book.Title,
		Kind:     string(book.Kind),
		FilePath: book.FilePath,
		NotePath: book.NotePath,
		Authors:  book.Authors,
		AddedAt:  book.AddedAt.Format(time.RFC3339),
	}
	if i.ledger != nil {
		positions, err := i.ledger.ListPositions(ctx, book.ID)
		if err != nil {
			return dto.BookDetailOutput{}, err
		}
		detail.Positions = positions
	}
	return detail, nil
}

// RemoveBook deletes the book note and then its position ledger.
func (i *Interactor) RemoveBook(ctx context.Context, id string) error {
	if err := i.svc.Remove(ctx, id); err != nil {
		return err
	}
	if i.ledger == nil {
		return nil
	}
	if err := i.ledger.DeleteBook(ctx, id); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("delete ledger for %s: %w", id, err)
	}
	return nil
}

func toOutput(book domain.Book) dto.BookOutput {
	return dto.BookOutput{
		ID:       book.ID,
		Title:    book.Title,
		Kind:     string(book.Kind),
		FilePath: book.FilePath,
		NotePath: book.NotePath,
	}
}
