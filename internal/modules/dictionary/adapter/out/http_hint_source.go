package out

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-hclog"

	"folio/internal/modules/dictionary/domain"
	dictout "folio/internal/modules/dictionary/port/out"
)

const maxHintBody = 1 << 20

// HTTPHintSource queries an external hint server with GET ?word=.
type HTTPHintSource struct {
	serverURL string
	client    *http.Client
	logger    hclog.Logger
}

func NewHTTPHintSource(serverURL string, timeout time.Duration, logger hclog.Logger) dictout.HintSource {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &HTTPHintSource{serverURL: serverURL, client: &http.Client{Timeout: timeout}, logger: logger}
}

type hintResponse struct {
	Prefixed map[string]any `json:"prefixed"`
}

func (s *HTTPHintSource) Hints(ctx context.Context, word string) []domain.Hint {
	if word == "" {
		return []domain.Hint{}
	}
	if s.serverURL == "" {
		s.logger.Debug("dictionary server not configured")
		return []domain.Hint{}
	}
	endpoint, err := url.Parse(s.serverURL)
	if err != nil {
		s.logger.Debug("invalid dictionary server url", "url", s.serverURL, "error", err)
		return []domain.Hint{}
	}
	query := endpoint.Query()
	query.Set("word", word)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		s.logger.Debug("build hint request failed", "error", err)
		return []domain.Hint{}
	}
	req.Header.Set("Accept", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Debug("hint request failed", "word", word, "error", err)
		return []domain.Hint{}
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		s.logger.Debug("hint server returned non-200", "word", word, "status", resp.StatusCode)
		return []domain.Hint{}
	}

	var payload hintResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxHintBody)).Decode(&payload); err != nil {
		s.logger.Debug("decode hint response failed", "word", word, "error", err)
		return []domain.Hint{}
	}
	hints := make([]domain.Hint, 0, len(payload.Prefixed))
	for candidate, raw := range payload.Prefixed {
		hints = append(hints, domain.Hint{Word: candidate, Meta: toMeta(raw)})
	}
	domain.SortHints(hints)
	return hints
}

func toMeta(raw any) map[string]any {
	switch v := raw.(type) {
	case map[string]any:
		return v
	case nil:
		return map[string]any{}
	default:
		return map[string]any{"value": v}
	}
}
