package usecase

import (
	"context"

	"folio/internal/modules/dictionary/domain"
	"folio/internal/modules/dictionary/dto"
	dictin "folio/internal/modules/dictionary/port/in"
	"folio/internal/modules/dictionary/service"
)

type Interactor struct {
	svc *service.HintService
}

func NewInteractor(svc *service.HintService) dictin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Hints(ctx context.Context, word string) []dto.Hint {
	return toDTO(i.svc.Hints(ctx, word))
}

func (i *Interactor) Lookup(ctx context.Context, ticket dto.Ticket) dto.HintResult {
	result := i.svc.Lookup(ctx, domain.Ticket{Generation: ticket.Generation, Query: ticket.Query})
	return dto.HintResult{Ticket: ticket, Hints: toDTO(result.Hints)}
}

func (i *Interactor) NewTracker() dictin.Tracker {
	return &tracker{}
}

type tracker struct {
	inner domain.Tracker
}

func (t *tracker) Begin(query string) dto.Ticket {
	ticket := t.inner.Begin(query)
	return dto.Ticket{Generation: ticket.Generation, Query: ticket.Query}
}

func (t *tracker) Accept(result dto.HintResult) bool {
	return t.inner.Accept(domain.Result{Ticket: domain.Ticket{Generation: result.Generation, Query: result.Query}})
}

func toDTO(hints []domain.Hint) []dto.Hint {
	out := make([]dto.Hint, 0, len(hints))
	for _, h := range hints {
		out = append(out, dto.Hint{Word: h.Word, Meta: h.Meta})
	}
	return out
}
