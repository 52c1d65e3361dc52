package out

import (
	"context"

	positiondomain "folio/internal/modules/position/domain"
	"folio/internal/modules/reader/domain"
	readerout "folio/internal/modules/reader/port/out"
	shelfin "folio/internal/modules/shelf/port/in"
)

type ShelfBookResolver struct {
	shelf shelfin.Usecase
}

func NewShelfBookResolver(shelf shelfin.Usecase) readerout.BookResolver {
	return &ShelfBookResolver{shelf: shelf}
}

func (r *ShelfBookResolver) Resolve(ctx context.Context, bookID string) (domain.BookRef, error) {
	book, err := r.shelf.GetBook(ctx, bookID)
	if err != nil {
		return domain.BookRef{}, err
	}
	return domain.BookRef{
		ID:       book.ID,
		Title:    book.Title,
		Kind:     positiondomain.ReaderKind(book.Kind),
		FilePath: book.FilePath,
	}, nil
}
