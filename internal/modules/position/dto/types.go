package dto

import "folio/internal/modules/position/domain"

// Position is the flat transport shape of a ledger entry.
type Position struct {
	BookID          string  `json:"bookId,omitempty"`
	DeviceID        string  `json:"deviceId"`
	Kind            string  `json:"readerKind"`
	ChapterProgress float64 `json:"chapterProgress"`
	TotalProgress   float64 `json:"totalProgress"`
	Page            int     `json:"page"`
	MaxPage         int     `json:"maxPage"`
	ChapterTitle    string  `json:"chapterTitle"`
	Fragment        string  `json:"fragment,omitempty"`
	Timestamp       float64 `json:"timestamp"`
}

type UpdatePositionInput struct {
	BookID   string
	Position Position
}

func FromDomain(position domain.ReadingPosition) Position {
	return Position{
		DeviceID:        position.DeviceID,
		Kind:            string(position.Kind),
		ChapterProgress: position.ChapterProgress,
		TotalProgress:   position.TotalProgress,
		Page:            position.Page,
		MaxPage:         position.MaxPage,
		ChapterTitle:    position.ChapterTitle,
		Fragment:        position.Fragment,
		Timestamp:       position.Timestamp,
	}
}

func (p Position) Domain() domain.ReadingPosition {
	return domain.ReadingPosition{
		DeviceID:        p.DeviceID,
		Kind:            domain.ReaderKind(p.Kind),
		ChapterProgress: p.ChapterProgress,
		TotalProgress:   p.TotalProgress,
		Page:            p.Page,
		MaxPage:         p.MaxPage,
		ChapterTitle:    p.ChapterTitle,
		Fragment:        p.Fragment,
		Timestamp:       p.Timestamp,
	}
}
