package in

import (
	"context"

	"folio/internal/modules/dictionary/dto"
)

// Tracker issues lookup tickets and filters stale results for one hint field.
type Tracker interface {
	Begin(query string) dto.Ticket
	Accept(result dto.HintResult) bool
}

type Usecase interface {
	Hints(ctx context.Context, word string) []dto.Hint
	Lookup(ctx context.Context, ticket dto.Ticket) dto.HintResult
	NewTracker() Tracker
}
