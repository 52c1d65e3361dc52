package out

import (
	"context"

	"folio/internal/modules/dictionary/domain"
)

// HintSource fetches candidate words. Implementations never fail; they return no hints instead.
type HintSource interface {
	Hints(ctx context.Context, word string) []domain.Hint
}
