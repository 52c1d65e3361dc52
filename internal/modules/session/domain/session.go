package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	positiondomain "folio/internal/modules/position/domain"
	apperrors "folio/internal/platform/errors"
)

const SchemaVersion = 1

// Phase is an application lifecycle signal.
type Phase string

const (
	PhaseActive     Phase = "active"
	PhaseInactive   Phase = "inactive"
	PhaseBackground Phase = "background"
)

func ParsePhase(raw string) (Phase, error) {
	switch phase := Phase(strings.ToLower(strings.TrimSpace(raw))); phase {
	case PhaseActive, PhaseInactive, PhaseBackground:
		return phase, nil
	default:
		return "", fmt.Errorf("%w: unknown lifecycle phase %q", apperrors.ErrInvalidInput, raw)
	}
}

// OpenSession is a session that has a start but no end yet.
type OpenSession struct {
	SessionID string                         `json:"session_id"`
	BookID    string                         `json:"book_id"`
	BookTitle string                         `json:"book_title"`
	DeviceID  string                         `json:"device_id"`
	Start     positiondomain.ReadingPosition `json:"start"`
	StartedAt time.Time                      `json:"started_at"`
}

type ReadingSession struct {
	ID              string
	BookID          string
	BookTitle       string
	DeviceID        string
	Start           positiondomain.ReadingPosition
	End             positiondomain.ReadingPosition
	StartedAt       time.Time
	EndedAt         time.Time
	DurationSeconds int
	PagesTurned     int
	ProgressDelta   float64
}

// Close ends an open session at end.
func (o OpenSession) Close(end positiondomain.ReadingPosition, endedAt time.Time) ReadingSession {
	duration := int(endedAt.Sub(o.StartedAt).Seconds())
	if duration < 0 {
		duration = 0
	}
	pages := end.Page - o.Start.Page
	if pages < 0 {
		pages = -pages
	}
	return ReadingSession{
		ID:              o.SessionID,
		BookID:          o.BookID,
		BookTitle:       o.BookTitle,
		DeviceID:        o.DeviceID,
		Start:           o.Start,
		End:             end,
		StartedAt:       o.StartedAt,
		EndedAt:         endedAt,
		DurationSeconds: duration,
		PagesTurned:     pages,
		ProgressDelta:   math.Round((end.TotalProgress-o.Start.TotalProgress)*10000) / 10000,
	}
}

// PublishedPosition is the terminal position handed to the sync subscriber on dismissal.
type PublishedPosition struct {
	BookID      string                         `json:"bookId"`
	BookTitle   string                         `json:"bookTitle"`
	Position    positiondomain.ReadingPosition `json:"position"`
	PublishedAt time.Time                      `json:"publishedAt"`
}
