package out

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"folio/internal/modules/relay/domain"
	relayout "folio/internal/modules/relay/port/out"
	sessiondomain "folio/internal/modules/session/domain"
	sessionout "folio/internal/modules/session/port/out"
	"folio/internal/platform/id"
)

// OutboxPublisher receives dismissal positions from the shell and queues them for push.
type OutboxPublisher struct {
	outbox relayout.Outbox
	ids    id.Generator
	logger hclog.Logger
}

func NewOutboxPublisher(outbox relayout.Outbox, ids id.Generator, logger hclog.Logger) sessionout.Publisher {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if ids == nil {
		ids = id.UUID{}
	}
	return &OutboxPublisher{outbox: outbox, ids: ids, logger: logger}
}

// Publish queues the position; the shell decides whether a failure matters.
func (p *OutboxPublisher) Publish(ctx context.Context, published sessiondomain.PublishedPosition) error {
	entry := domain.Entry{
		ID:          p.ids.New(),
		BookID:      published.BookID,
		BookTitle:   published.BookTitle,
		Position:    published.Position,
		PublishedAt: published.PublishedAt,
	}
	if err := p.outbox.Append(ctx, entry); err != nil {
		p.logger.Warn("queue published position failed", "book", published.BookID, "error", err)
		return fmt.Errorf("queue published position: %w", err)
	}
	p.logger.Debug("position queued", "entry", entry.ID, "book", entry.BookID, "page", entry.Position.Page)
	return nil
}
