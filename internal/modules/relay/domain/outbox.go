package domain

import (
	"fmt"
	"strings"
	"time"

	positiondomain "folio/internal/modules/position/domain"
	apperrors "folio/internal/platform/errors"
)

// Entry is one published position waiting to reach the remote sync server.
type Entry struct {
	ID          string                         `json:"id"`
	BookID      string                         `json:"bookId"`
	BookTitle   string                         `json:"bookTitle,omitempty"`
	Position    positiondomain.ReadingPosition `json:"position"`
	PublishedAt time.Time                      `json:"publishedAt"`
	Attempts    int                            `json:"attempts"`
	LastError   string                         `json:"lastError,omitempty"`
}

func (e Entry) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("%w: outbox entry id is required", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(e.BookID) == "" {
		return fmt.Errorf("%w: outbox entry book is required", apperrors.ErrInvalidInput)
	}
	return e.Position.Validate()
}

type PushReport struct {
	Pushed    int
	Failed    int
	Remaining int
}
