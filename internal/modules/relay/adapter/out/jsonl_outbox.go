package out

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"folio/internal/modules/relay/domain"
	relayout "folio/internal/modules/relay/port/out"
)

// JSONLOutbox stores one entry per line; later lines for the same id win.
type JSONLOutbox struct {
	mu   sync.Mutex
	path string
}

func NewJSONLOutbox(path string) relayout.Outbox {
	return &JSONLOutbox{path: path}
}

func (o *JSONLOutbox) Append(_ context.Context, entry domain.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal outbox entry: %w", err)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(o.path), 0o755); err != nil {
		return fmt.Errorf("create outbox dir: %w", err)
	}
	f, err := os.OpenFile(o.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open outbox: %w", err)
	}
	defer func() { _ = f.Close() }()
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append outbox: %w", err)
	}
	return nil
}

func (o *JSONLOutbox) Pending(_ context.Context) ([]domain.Entry, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.read()
}

func (o *JSONLOutbox) Settle(_ context.Context, pushed []string, failed []domain.Entry) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	current, err := o.read()
	if err != nil {
		return err
	}
	drop := make(map[string]bool, len(pushed))
	for _, id := range pushed {
		drop[id] = true
	}
	updated := make(map[string]domain.Entry, len(failed))
	for _, entry := range failed {
		updated[entry.ID] = entry
	}

	buf := bytes.Buffer{}
	for _, entry := range current {
		if drop[entry.ID] {
			continue
		}
		if u, ok := updated[entry.ID]; ok {
			entry = u
		}
		line, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal outbox entry: %w", err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	tmp := o.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write outbox: %w", err)
	}
	if err := os.Rename(tmp, o.path); err != nil {
		return fmt.Errorf("replace outbox: %w", err)
	}
	return nil
}

func (o *JSONLOutbox) read() ([]domain.Entry, error) {
	f, err := os.Open(o.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Entry{}, nil
		}
		return nil, fmt.Errorf("open outbox: %w", err)
	}
	defer func() { _ = f.Close() }()

	index := map[string]int{}
	entries := []domain.Entry{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for line := 1; scanner.Scan(); line++ {
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var entry domain.Entry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, fmt.Errorf("decode outbox line %d: %w", line, err)
		}
		if i, ok := index[entry.ID]; ok {
			entries[i] = entry
			continue
		}
		index[entry.ID] = len(entries)
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read outbox: %w", err)
	}
	return entries, nil
}
