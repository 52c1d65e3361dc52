package in

import (
	"context"

	"folio/internal/modules/reader/dto"
	readerin "folio/internal/modules/reader/port/in"
)

type CLIHandler struct {
	usecase readerin.Usecase
}

func NewCLIHandler(usecase readerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) TableOfContents(ctx context.Context, bookID string) ([]dto.TOCEntry, error) {
	return h.usecase.TableOfContents(ctx, bookID)
}

func (h CLIHandler) Kinds() []string {
	return h.usecase.Kinds()
}

// Locate reports one locator change for the book and returns the page and title it resolved to.
func (h CLIHandler) Locate(ctx context.Context, input dto.LocateInput) (dto.PageOutput, error) {
	position, err := h.usecase.Locate(ctx, input)
	if err != nil {
		return dto.PageOutput{}, err
	}
	return dto.PageOutput{
		Page:         position.Page,
		MaxPage:      position.MaxPage,
		ChapterTitle: position.ChapterTitle,
		Progress:     position.TotalProgress,
	}, nil
}
