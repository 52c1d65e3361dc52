package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"folio/internal/modules/session/domain"
	sessionout "folio/internal/modules/session/port/out"
	apperrors "folio/internal/platform/errors"
	"folio/internal/platform/slug"
)

// FileOpenSessionStore keeps each open session in <state>/open-sessions so separate
// CLI invocations drive the same shell.
type FileOpenSessionStore struct {
	mu  sync.Mutex
	dir string
}

func NewFileOpenSessionStore(stateDir string) sessionout.OpenSessionStore {
	return &FileOpenSessionStore{dir: filepath.Join(stateDir, "open-sessions")}
}

func (s *FileOpenSessionStore) path(bookID, deviceID string) string {
	return filepath.Join(s.dir, slug.Make(bookID)+"@"+slug.Make(deviceID)+".json")
}

func (s *FileOpenSessionStore) SaveOpen(_ context.Context, session domain.OpenSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create open session dir: %w", err)
	}
	payload, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal open session: %w", err)
	}
	if err := os.WriteFile(s.path(session.BookID, session.DeviceID), payload, 0o644); err != nil {
		return fmt.Errorf("write open session: %w", err)
	}
	return nil
}

func (s *FileOpenSessionStore) LoadOpen(_ context.Context, bookID, deviceID string) (domain.OpenSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, err := os.ReadFile(s.path(bookID, deviceID))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.OpenSession{}, apperrors.ErrNoActiveSession
		}
		return domain.OpenSession{}, fmt.Errorf("read open session: %w", err)
	}
	open := domain.OpenSession{}
	if err := json.Unmarshal(payload, &open); err != nil {
		return domain.OpenSession{}, fmt.Errorf("decode open session: %w", err)
	}
	if open.SessionID == "" || open.BookID != bookID || open.DeviceID != deviceID {
		return domain.OpenSession{}, apperrors.ErrNoActiveSession
	}
	return open, nil
}

func (s *FileOpenSessionStore) ClearOpen(_ context.Context, bookID, deviceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(bookID, deviceID)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("clear open session: %w", err)
	}
	return nil
}
