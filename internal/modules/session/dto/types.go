package dto

import (
	"time"

	positiondto "folio/internal/modules/position/dto"
)

type AttachInput struct {
	BookID   string
	DeviceID string
}

type OpenSessionOutput struct {
	SessionID string
	BookID    string
	DeviceID  string
	Start     positiondto.Position
	StartedAt time.Time
}

type SessionOutput struct {
	ID              string
	BookID          string
	BookTitle       string
	DeviceID        string
	Start           positiondto.Position
	End             positiondto.Position
	StartedAt       time.Time
	EndedAt         time.Time
	DurationSeconds int
	PagesTurned     int
	ProgressDelta   float64
	NotePath        string
}

type SignalOutput struct {
	Phase  string
	Opened *OpenSessionOutput
	Closed *SessionOutput
}

type DismissOutput struct {
	Closed    *SessionOutput
	Published bool
}
