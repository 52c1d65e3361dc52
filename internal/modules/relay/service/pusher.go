package service

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"folio/internal/modules/relay/domain"
	relayout "folio/internal/modules/relay/port/out"
)

// Pusher drains the outbox into the remote sync server.
type Pusher struct {
	outbox relayout.Outbox
	remote relayout.Remote
	logger hclog.Logger
}

func NewPusher(outbox relayout.Outbox, remote relayout.Remote, logger hclog.Logger) *Pusher {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Pusher{outbox: outbox, remote: remote, logger: logger}
}

func (p *Pusher) Pending(ctx context.Context) ([]domain.Entry, error) {
	return p.outbox.Pending(ctx)
}

// Push sends the newest pending entry of each (book, device) once. Older
// entries for the same pair are dropped unsent; entries that fail stay in the outbox.
func (p *Pusher) Push(ctx context.Context) (domain.PushReport, error) {
	if p.remote == nil {
		return domain.PushReport{}, fmt.Errorf("relay remote is not configured")
	}
	entries, err := p.outbox.Pending(ctx)
	if err != nil {
		return domain.PushReport{}, err
	}
	send, superseded := newestPerDevice(entries)
	settled := append([]string(nil), superseded...)
	pushed := 0
	var failed []domain.Entry
	for _, entry := range send {
		if err := ctx.Err(); err != nil {
			break
		}
		if err := p.remote.PutPosition(ctx, entry.BookID, entry.Position); err != nil {
			entry.Attempts++
			entry.LastError = err.Error()
			failed = append(failed, entry)
			p.logger.Warn("push failed", "entry", entry.ID, "book", entry.BookID, "attempts", entry.Attempts, "error", err)
			continue
		}
		pushed++
		settled = append(settled, entry.ID)
	}
	if err := p.outbox.Settle(ctx, settled, failed); err != nil {
		return domain.PushReport{}, err
	}
	report := domain.PushReport{Pushed: pushed, Failed: len(failed), Remaining: len(entries) - len(settled)}
	p.logger.Info("push finished", "pushed", report.Pushed, "failed", report.Failed, "superseded", len(superseded), "remaining", report.Remaining)
	return report, nil
}

type deviceKey struct {
	book   string
	device string
}

// newestPerDevice keeps, per (book, device), the entry with the latest position
// timestamp; on equal timestamps the later outbox entry wins.
func newestPerDevice(entries []domain.Entry) (send []domain.Entry, superseded []string) {
	newest := make(map[deviceKey]int, len(entries))
	for i, entry := range entries {
		key := deviceKey{book: entry.BookID, device: entry.Position.DeviceID}
		if j, ok := newest[key]; ok && entries[j].Position.Timestamp > entry.Position.Timestamp {
			continue
		}
		newest[key] = i
	}
	for i, entry := range entries {
		if newest[deviceKey{book: entry.BookID, device: entry.Position.DeviceID}] == i {
			send = append(send, entry)
			continue
		}
		superseded = append(superseded, entry.ID)
	}
	return send, superseded
}
