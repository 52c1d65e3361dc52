package in

import (
	"context"

	sessiondto "folio/internal/modules/session/dto"
	sessionin "folio/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Signal attaches to the book, delivers one lifecycle signal and releases the book
// without dismissing; an open session stays open for the next invocation.
func (h CLIHandler) Signal(ctx context.Context, bookID, deviceID, phase string) (sessiondto.SignalOutput, error) {
	shell, err := h.usecase.Attach(ctx, sessiondto.AttachInput{BookID: bookID, DeviceID: deviceID})
	if err != nil {
		return sessiondto.SignalOutput{}, err
	}
	defer shell.Release()
	return shell.Signal(ctx, phase)
}

func (h CLIHandler) Dismiss(ctx context.Context, bookID, deviceID string) (sessiondto.DismissOutput, error) {
	shell, err := h.usecase.Attach(ctx, sessiondto.AttachInput{BookID: bookID, DeviceID: deviceID})
	if err != nil {
		return sessiondto.DismissOutput{}, err
	}
	return shell.Dismiss(ctx), nil
}

func (h CLIHandler) OpenSession(ctx context.Context, bookID, deviceID string) (sessiondto.OpenSessionOutput, bool, error) {
	shell, err := h.usecase.Attach(ctx, sessiondto.AttachInput{BookID: bookID, DeviceID: deviceID})
	if err != nil {
		return sessiondto.OpenSessionOutput{}, false, err
	}
	defer shell.Release()
	return shell.OpenSession(ctx)
}

func (h CLIHandler) List(ctx context.Context, bookID string) ([]sessiondto.SessionOutput, error) {
	return h.usecase.ListSessions(ctx, bookID)
}
