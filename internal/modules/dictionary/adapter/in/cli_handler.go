package in

import (
	"context"

	"folio/internal/modules/dictionary/dto"
	dictin "folio/internal/modules/dictionary/port/in"
)

type CLIHandler struct {
	usecase dictin.Usecase
}

func NewCLIHandler(usecase dictin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Hints(ctx context.Context, word string) []dto.Hint {
	return h.usecase.Hints(ctx, word)
}
