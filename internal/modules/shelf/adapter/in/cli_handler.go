package in

import (
	"context"

	"folio/internal/modules/shelf/dto"
	shelfin "folio/internal/modules/shelf/port/in"
)

type CLIHandler struct {
	usecase shelfin.Usecase
}

func NewCLIHandler(usecase shelfin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Add(ctx context.Context, path, title, kind string, authors []string) (dto.BookOutput, error) {
	return h.usecase.AddBook(ctx, dto.AddBookInput{Path: path, Title: title, Kind: kind, Authors: authors})
}

func (h CLIHandler) List(ctx context.Context) ([]dto.BookOutput, error) {
	return h.usecase.ListBooks(ctx)
}

func (h CLIHandler) Show(ctx context.Context, id string) (dto.BookDetailOutput, error) {
	return h.usecase.GetBook(ctx, id)
}

func (h CLIHandler) Remove(ctx context.Context, id string) error {
	return h.usecase.RemoveBook(ctx, id)
}
