package usecase

import (
	"context"
	"fmt"
	"strings"

	positiondto "folio/internal/modules/position/dto"
	readerdto "folio/internal/modules/reader/dto"
	readerin "folio/internal/modules/reader/port/in"
	"folio/internal/modules/session/domain"
	sessiondto "folio/internal/modules/session/dto"
	sessionin "folio/internal/modules/session/port/in"
	"folio/internal/modules/session/service"
	apperrors "folio/internal/platform/errors"
)

type Interactor struct {
	deps   service.Deps
	reader readerin.Usecase
}

func NewInteractor(deps service.Deps, reader readerin.Usecase) sessionin.Usecase {
	return &Interactor{deps: deps, reader: reader}
}

func (i *Interactor) Attach(ctx context.Context, input sessiondto.AttachInput) (sessionin.Shell, error) {
	if strings.TrimSpace(input.BookID) == "" {
		return nil, fmt.Errorf("%w: book id is required", apperrors.ErrInvalidInput)
	}
	if i.reader == nil {
		return nil, fmt.Errorf("reader usecase is not configured")
	}
	book, err := i.reader.Open(ctx, readerdto.OpenInput{BookID: input.BookID, DeviceID: input.DeviceID})
	if err != nil {
		return nil, err
	}
	shell := i.Bind(book, input.DeviceID).(*shellHandle)
	shell.owned = true
	return shell, nil
}

func (i *Interactor) Bind(book readerin.OpenedBook, deviceID string) sessionin.Shell {
	return &shellHandle{
		book:  book,
		shell: service.NewShell(i.deps, book.Adapter(), book.Info().Title, deviceID),
	}
}

func (i *Interactor) ListSessions(ctx context.Context, bookID string) ([]sessiondto.SessionOutput, error) {
	if strings.TrimSpace(bookID) == "" {
		return nil, fmt.Errorf("%w: book id is required", apperrors.ErrInvalidInput)
	}
	sessions, err := i.deps.Sessions.List(ctx, bookID)
	if err != nil {
		return nil, err
	}
	out := make([]sessiondto.SessionOutput, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionOutput(s, ""))
	}
	return out, nil
}

type shellHandle struct {
	book  readerin.OpenedBook
	shell *service.Shell
	owned bool
}

func (h *shellHandle) BookID() string {
	return h.book.Info().BookID
}

func (h *shellHandle) Signal(ctx context.Context, raw string) (sessiondto.SignalOutput, error) {
	phase, err := domain.ParsePhase(raw)
	if err != nil {
		return sessiondto.SignalOutput{}, err
	}
	transition, err := h.shell.HandleLifecycle(ctx, phase)
	out := sessiondto.SignalOutput{Phase: string(transition.Phase)}
	if transition.Opened != nil {
		opened := toOpenOutput(*transition.Opened)
		out.Opened = &opened
	}
	if transition.Closed != nil {
		closed := toSessionOutput(*transition.Closed, transition.NotePath)
		out.Closed = &closed
	}
	return out, err
}

func (h *shellHandle) Dismiss(ctx context.Context) sessiondto.DismissOutput {
	transition, published := h.shell.Dismiss(ctx)
	out := sessiondto.DismissOutput{Published: published}
	if transition.Closed != nil {
		closed := toSessionOutput(*transition.Closed, transition.NotePath)
		out.Closed = &closed
	}
	h.Release()
	return out
}

func (h *shellHandle) Release() {
	if h.owned {
		_ = h.book.Close()
	}
}

func (h *shellHandle) OpenSession(ctx context.Context) (sessiondto.OpenSessionOutput, bool, error) {
	open, ok, err := h.shell.OpenSession(ctx)
	if err != nil || !ok {
		return sessiondto.OpenSessionOutput{}, ok, err
	}
	return toOpenOutput(open), true, nil
}

func toOpenOutput(open domain.OpenSession) sessiondto.OpenSessionOutput {
	return sessiondto.OpenSessionOutput{
		SessionID: open.SessionID,
		BookID:    open.BookID,
		DeviceID:  open.DeviceID,
		Start:     positiondto.FromDomain(open.Start),
		StartedAt: open.StartedAt,
	}
}

func toSessionOutput(s domain.ReadingSession, notePath string) sessiondto.SessionOutput {
	return sessiondto.SessionOutput{
		ID:              s.ID,
		BookID:          s.BookID,
		BookTitle:       s.BookTitle,
		DeviceID:        s.DeviceID,
		Start:           positiondto.FromDomain(s.Start),
		End:             positiondto.FromDomain(s.End),
		StartedAt:       s.StartedAt,
		EndedAt:         s.EndedAt,
		DurationSeconds: s.DurationSeconds,
		PagesTurned:     s.PagesTurned,
		ProgressDelta:   s.ProgressDelta,
		NotePath:        notePath,
	}
}
