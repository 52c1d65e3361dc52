package in

import (
	"context"

	"folio/internal/modules/shelf/dto"
)

type Usecase interface {
	AddBook(ctx context.Context, input dto.AddBookInput) (dto.BookOutput, error)
	ListBooks(ctx context.Context) ([]dto.BookOutput, error)
	GetBook(ctx context.Context, id string) (dto.BookDetailOutput, error)
	RemoveBook(ctx context.Context, id string) error
}
