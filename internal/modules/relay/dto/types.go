package dto

import (
	"time"

	positiondto "folio/internal/modules/position/dto"
)

type Entry struct {
	ID          string
	BookID      string
	BookTitle   string
	Position    positiondto.Position
	PublishedAt time.Time
	Attempts    int
	LastError   string
}

type PushReport struct {
	Pushed    int
	Failed    int
	Remaining int
}
