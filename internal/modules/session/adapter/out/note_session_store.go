package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	positiondomain "folio/internal/modules/position/domain"
	"folio/internal/modules/session/domain"
	sessionout "folio/internal/modules/session/port/out"
	"folio/internal/platform/markdown"
	"folio/internal/platform/slug"
)

type positionMeta struct {
	Page            int     `yaml:"page"`
	MaxPage         int     `yaml:"max_page"`
	ChapterTitle    string  `yaml:"chapter_title"`
	ChapterProgress float64 `yaml:"chapter_progress"`
	TotalProgress   float64 `yaml:"total_progress"`
	Fragment        string  `yaml:"fragment,omitempty"`
	Timestamp       float64 `yaml:"timestamp"`
}

type sessionMeta struct {
	SchemaVersion   int          `yaml:"schema_version"`
	ID              string       `yaml:"id"`
	BookID          string       `yaml:"book_id"`
	BookTitle       string       `yaml:"book_title"`
	DeviceID        string       `yaml:"device_id"`
	ReaderKind      string       `yaml:"reader_kind"`
	StartedAt       string       `yaml:"started_at"`
	EndedAt         string       `yaml:"ended_at"`
	DurationSeconds int          `yaml:"duration_seconds"`
	PagesTurned     int          `yaml:"pages_turned"`
	ProgressDelta   float64      `yaml:"progress_delta"`
	Start           positionMeta `yaml:"start"`
	End             positionMeta `yaml:"end"`
}

// NoteSessionStore writes each closed session once as a markdown note under
// <library>/sessions/<book>/.
type NoteSessionStore struct {
	dir string
}

func NewNoteSessionStore(libraryPath string) sessionout.SessionStore {
	return &NoteSessionStore{dir: filepath.Join(libraryPath, "sessions")}
}

func (s *NoteSessionStore) Save(_ context.Context, session domain.ReadingSession) (string, error) {
	meta, err := toMeta(sessionMeta{
		SchemaVersion:   domain.SchemaVersion,
		ID:              session.ID,
		BookID:          session.BookID,
		BookTitle:       session.BookTitle,
		DeviceID:        session.DeviceID,
		ReaderKind:      string(session.End.Kind),
		StartedAt:       session.StartedAt.Format(time.RFC3339),
		EndedAt:         session.EndedAt.Format(time.RFC3339),
		DurationSeconds: session.DurationSeconds,
		PagesTurned:     session.PagesTurned,
		ProgressDelta:   session.ProgressDelta,
		Start:           fromPosition(session.Start),
		End:             fromPosition(session.End),
	})
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s-%s.md", session.StartedAt.UTC().Format("20060102-150405"), slug.Make(session.ID))
	path := filepath.Join(s.dir, slug.Make(session.BookID), name)
	body := fmt.Sprintf("# %s\n\n- Device: %s\n- Pages: %d → %d (%d turned)\n- Chapter: %s\n- Duration: %s\n",
		session.BookTitle, session.DeviceID, session.Start.Page, session.End.Page, session.PagesTurned,
		session.End.ChapterTitle, (time.Duration(session.DurationSeconds) * time.Second).String())
	if err := markdown.WriteNote(path, markdown.Note{Meta: meta, Body: body}); err != nil {
		return "", fmt.Errorf("save session %s: %w", session.ID, err)
	}
	return path, nil
}

func (s *NoteSessionStore) List(_ context.Context, bookID string) ([]domain.ReadingSession, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, slug.Make(bookID), "*.md"))
	if err != nil {
		return nil, fmt.Errorf("glob session notes: %w", err)
	}
	out := make([]domain.ReadingSession, 0, len(matches))
	for _, path := range matches {
		note, err := markdown.ReadNote(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read session note: %w", err)
		}
		var meta sessionMeta
		if err := fromMeta(note.Meta, &meta); err != nil {
			return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
		}
		if meta.BookID != bookID {
			continue
		}
		out = append(out, toSession(meta))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out, nil
}

func toSession(meta sessionMeta) domain.ReadingSession {
	kind := positiondomain.ReaderKind(meta.ReaderKind)
	session := domain.ReadingSession{
		ID:              meta.ID,
		BookID:          meta.BookID,
		BookTitle:       meta.BookTitle,
		DeviceID:        meta.DeviceID,
		Start:           meta.Start.position(meta.DeviceID, kind),
		End:             meta.End.position(meta.DeviceID, kind),
		DurationSeconds: meta.DurationSeconds,
		PagesTurned:     meta.PagesTurned,
		ProgressDelta:   meta.ProgressDelta,
	}
	session.StartedAt, _ = time.Parse(time.RFC3339, meta.StartedAt)
	session.EndedAt, _ = time.Parse(time.RFC3339, meta.EndedAt)
	return session
}

func fromPosition(p positiondomain.ReadingPosition) positionMeta {
	return positionMeta{
		Page:            p.Page,
		MaxPage:         p.MaxPage,
		ChapterTitle:    p.ChapterTitle,
		ChapterProgress: p.ChapterProgress,
		TotalProgress:   p.TotalProgress,
		Fragment:        p.Fragment,
		Timestamp:       p.Timestamp,
	}
}

func (m positionMeta) position(deviceID string, kind positiondomain.ReaderKind) positiondomain.ReadingPosition {
	return positiondomain.ReadingPosition{
		DeviceID:        deviceID,
		Kind:            kind,
		ChapterProgress: m.ChapterProgress,
		TotalProgress:   m.TotalProgress,
		Page:            m.Page,
		MaxPage:         m.MaxPage,
		ChapterTitle:    m.ChapterTitle,
		Fragment:        m.Fragment,
		Timestamp:       m.Timestamp,
	}
}

// toMeta and fromMeta move typed frontmatter in and out of the generic note map.
func toMeta(v any) (map[string]any, error) {
	raw, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal session frontmatter: %w", err)
	}
	meta := map[string]any{}
	if err := yaml.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("unmarshal session frontmatter: %w", err)
	}
	return meta, nil
}

func fromMeta(meta map[string]any, v any) error {
	raw, err := yaml.Marshal(meta)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(raw, v)
}
