package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"

	positiondomain "folio/internal/modules/position/domain"
	"folio/internal/modules/session/domain"
	sessionout "folio/internal/modules/session/port/out"
	"folio/internal/platform/clock"
	apperrors "folio/internal/platform/errors"
	"folio/internal/platform/id"
)

// Deps are the collaborators shared by every shell.
type Deps struct {
	Positions sessionout.PositionSource
	Sessions  sessionout.SessionStore
	Open      sessionout.OpenSessionStore
	Publisher sessionout.Publisher
	Clock     clock.Clock
	IDs       id.Generator
	Logger    hclog.Logger
}

// Transition reports what a lifecycle signal did.
type Transition struct {
	Phase    domain.Phase
	Opened   *domain.OpenSession
	Closed   *domain.ReadingSession
	NotePath string
}

// Shell hosts one reader adapter and turns lifecycle signals into reading sessions.
type Shell struct {
	deps      Deps
	adapter   sessionout.ReaderAdapter
	bookTitle string
	deviceID  string
	phase     domain.Phase
	dismissed bool
}

func NewShell(deps Deps, adapter sessionout.ReaderAdapter, bookTitle, deviceID string) *Shell {
	if deps.Logger == nil {
		deps.Logger = hclog.NewNullLogger()
	}
	if deps.Clock == nil {
		deps.Clock = clock.SystemClock{}
	}
	if deps.IDs == nil {
		deps.IDs = id.UUID{}
	}
	deps.Logger = deps.Logger.With("book", adapter.BookID(), "device", deviceID)
	return &Shell{deps: deps, adapter: adapter, bookTitle: bookTitle, deviceID: deviceID, phase: domain.PhaseInactive}
}

func (s *Shell) Phase() domain.Phase { return s.phase }

func (s *Shell) HandleLifecycle(ctx context.Context, phase domain.Phase) (Transition, error) {
	if s.dismissed {
		return Transition{}, fmt.Errorf("shell for %s was dismissed", s.adapter.BookID())
	}
	s.phase = phase
	switch phase {
	case domain.PhaseActive:
		return s.becomeActive(ctx)
	case domain.PhaseBackground:
		return s.enterBackground(ctx)
	case domain.PhaseInactive:
		return Transition{Phase: phase}, nil
	default:
		return Transition{}, fmt.Errorf("%w: unknown lifecycle phase %q", apperrors.ErrInvalidInput, phase)
	}
}

func (s *Shell) becomeActive(ctx context.Context) (Transition, error) {
	out := Transition{Phase: domain.PhaseActive}
	if _, ok, err := s.OpenSession(ctx); err != nil || ok {
		return out, err
	}
	stored, ok, err := s.deps.Positions.Get(ctx, s.adapter.BookID(), s.deviceID)
	if err != nil {
		return out, fmt.Errorf("load position: %w", err)
	}
	if !ok || stored.Kind != s.adapter.Kind() {
		s.deps.Logger.Debug("no stored position for reader kind, session not opened", "kind", s.adapter.Kind())
		return out, nil
	}
	open := domain.OpenSession{
		SessionID: s.deps.IDs.New(),
		BookID:    s.adapter.BookID(),
		BookTitle: s.bookTitle,
		DeviceID:  s.deviceID,
		Start:     stored,
		StartedAt: s.deps.Clock.Now(),
	}
	if err := s.deps.Open.SaveOpen(ctx, open); err != nil {
		return out, err
	}
	s.deps.Logger.Debug("session opened", "session", open.SessionID, "page", stored.Page)
	out.Opened = &open
	return out, nil
}

func (s *Shell) enterBackground(ctx context.Context) (Transition, error) {
	out := Transition{Phase: domain.PhaseBackground}
	flushed, flushedOK := s.adapter.Flush(ctx)
	open, ok, err := s.OpenSession(ctx)
	if err != nil || !ok {
		return out, err
	}
	end := open.Start
	if flushedOK {
		end = flushed
	}
	closed, path, err := s.close(ctx, open, end)
	if err != nil {
		return out, err
	}
	out.Closed, out.NotePath = &closed, path
	return out, nil
}

// Dismiss closes any open session and publishes the final position. Failures are logged only.
func (s *Shell) Dismiss(ctx context.Context) (Transition, bool) {
	out := Transition{Phase: s.phase}
	if s.dismissed {
		return out, false
	}
	s.dismissed = true

	final, hasFinal := s.adapter.CurrentPosition()
	open, ok, err := s.OpenSession(ctx)
	if err != nil {
		s.deps.Logger.Warn("open session unavailable on dismiss", "error", err)
	}
	if ok {
		end := open.Start
		if hasFinal {
			end = final
		}
		closed, path, err := s.close(ctx, open, end)
		if err != nil {
			s.deps.Logger.Warn("close session on dismiss failed", "session", open.SessionID, "error", err)
		} else {
			out.Closed, out.NotePath = &closed, path
		}
		if !hasFinal {
			final, hasFinal = end, true
		}
	}
	if !hasFinal {
		s.deps.Logger.Debug("nothing to publish on dismiss")
		return out, false
	}
	return out, s.publish(ctx, final)
}

func (s *Shell) publish(ctx context.Context, position positiondomain.ReadingPosition) bool {
	if s.deps.Publisher == nil {
		return false
	}
	err := s.deps.Publisher.Publish(ctx, domain.PublishedPosition{
		BookID:      s.adapter.BookID(),
		BookTitle:   s.bookTitle,
		Position:    position,
		PublishedAt: s.deps.Clock.Now(),
	})
	if err != nil {
		s.deps.Logger.Warn("publish final position failed", "error", err)
		return false
	}
	s.deps.Logger.Debug("final position published", "page", position.Page)
	return true
}

// OpenSession reports the session currently open for this book and device.
func (s *Shell) OpenSession(ctx context.Context) (domain.OpenSession, bool, error) {
	open, err := s.deps.Open.LoadOpen(ctx, s.adapter.BookID(), s.deviceID)
	if errors.Is(err, apperrors.ErrNoActiveSession) {
		return domain.OpenSession{}, false, nil
	}
	if err != nil {
		return domain.OpenSession{}, false, err
	}
	return open, true, nil
}

func (s *Shell) close(ctx context.Context, open domain.OpenSession, end positiondomain.ReadingPosition) (domain.ReadingSession, string, error) {
	closed := open.Close(end, s.deps.Clock.Now())
	if err := s.deps.Open.ClearOpen(ctx, open.BookID, open.DeviceID); err != nil {
		return domain.ReadingSession{}, "", err
	}
	path, err := s.deps.Sessions.Save(ctx, closed)
	if err != nil {
		return closed, "", err
	}
	s.deps.Logger.Debug("session closed", "session", closed.ID, "pages", closed.PagesTurned, "seconds", closed.DurationSeconds)
	return closed, path, nil
}
