package usecase

import (
	"context"

	positiondto "folio/internal/modules/position/dto"
	"folio/internal/modules/relay/dto"
	relayin "folio/internal/modules/relay/port/in"
	"folio/internal/modules/relay/service"
)

type Interactor struct {
	pusher *service.Pusher
}

func NewInteractor(pusher *service.Pusher) relayin.Usecase {
	return &Interactor{pusher: pusher}
}

func (i *Interactor) Push(ctx context.Context) (dto.PushReport, error) {
	report, err := i.pusher.Push(ctx)
	if err != nil {
		return dto.PushReport{}, err
	}
	return dto.PushReport{Pushed: report.Pushed, Failed: report.Failed, Remaining: report.Remaining}, nil
}

func (i *Interactor) Pending(ctx context.Context) ([]dto.Entry, error) {
	entries, err := i.pusher.Pending(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.Entry, 0, len(entries))
	for _, e := range entries {
		position := positiondto.FromDomain(e.Position)
		position.BookID = e.BookID
		out = append(out, dto.Entry{
			ID:          e.ID,
			BookID:      e.BookID,
			BookTitle:   e.BookTitle,
			Position:    position,
			PublishedAt: e.PublishedAt,
			Attempts:    e.Attempts,
			LastError:   e.LastError,
		})
	}
	return out, nil
}
