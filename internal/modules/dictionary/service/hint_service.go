package service

import (
	"context"
	"strings"

	"folio/internal/modules/dictionary/domain"
	dictout "folio/internal/modules/dictionary/port/out"
)

type HintService struct {
	source dictout.HintSource
}

func NewHintService(source dictout.HintSource) *HintService {
	return &HintService{source: source}
}

func (s *HintService) Hints(ctx context.Context, word string) []domain.Hint {
	word = strings.TrimSpace(word)
	if word == "" || s.source == nil {
		return []domain.Hint{}
	}
	hints := s.source.Hints(ctx, word)
	if hints == nil {
		return []domain.Hint{}
	}
	domain.SortHints(hints)
	return hints
}

func (s *HintService) Lookup(ctx context.Context, ticket domain.Ticket) domain.Result {
	return domain.Result{Ticket: ticket, Hints: s.Hints(ctx, ticket.Query)}
}
