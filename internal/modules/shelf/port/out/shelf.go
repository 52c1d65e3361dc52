package out

import (
	"context"

	"folio/internal/modules/shelf/domain"
)

type BookStore interface {
	Save(ctx context.Context, document domain.BookDocument) (string, error)
	FindByID(ctx context.Context, id string) (domain.BookDocument, error)
	List(ctx context.Context) ([]domain.BookDocument, error)
	Delete(ctx context.Context, id string) error
}
