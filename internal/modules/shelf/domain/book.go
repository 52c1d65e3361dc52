package domain

import (
	"fmt"
	"strings"
	"time"

	positiondomain "folio/internal/modules/position/domain"
	apperrors "folio/internal/platform/errors"
)

const SchemaVersion = 1

type Book struct {
	ID        string
	Title     string
	Kind      positiondomain.ReaderKind
	FilePath  string
	Authors   []string
	NotePath  string
	AddedAt   time.Time
	UpdatedAt time.Time
}

func (b Book) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return fmt.Errorf("%w: book id is required", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(b.Title) == "" {
		return fmt.Errorf("%w: title is required", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(b.FilePath) == "" {
		return fmt.Errorf("%w: file path is required", apperrors.ErrInvalidInput)
	}
	return b.Kind.Validate()
}

type BookDocument struct {
	Book Book
	Body string
}
