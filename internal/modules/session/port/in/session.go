package in

import (
	"context"

	readerin "folio/internal/modules/reader/port/in"
	"folio/internal/modules/session/dto"
)

// Shell is a navigation shell bound to one open book on one device.
type Shell interface {
	BookID() string
	Signal(ctx context.Context, phase string) (dto.SignalOutput, error)
	Dismiss(ctx context.Context) dto.DismissOutput
	OpenSession(ctx context.Context) (dto.OpenSessionOutput, bool, error)
	// Release closes an attached book without dismissing the shell.
	Release()
}

type Usecase interface {
	// Attach opens the book through the reader and binds a shell to it; Dismiss closes the book.
	Attach(ctx context.Context, input dto.AttachInput) (Shell, error)
	// Bind wraps a book the caller already opened; the caller keeps ownership of it.
	Bind(book readerin.OpenedBook, deviceID string) Shell
	ListSessions(ctx context.Context, bookID string) ([]dto.SessionOutput, error)
}
