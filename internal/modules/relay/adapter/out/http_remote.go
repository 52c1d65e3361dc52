package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	positiondomain "folio/internal/modules/position/domain"
	positiondto "folio/internal/modules/position/dto"
	relayout "folio/internal/modules/relay/port/out"
)

// HTTPRemote talks to another folio sync server.
type HTTPRemote struct {
	baseURL string
	client  *http.Client
}

func NewHTTPRemote(baseURL string, timeout time.Duration) relayout.Remote {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPRemote{baseURL: strings.TrimRight(baseURL, "/"), client: &http.Client{Timeout: timeout}}
}

func (r *HTTPRemote) PutPosition(ctx context.Context, bookID string, position positiondomain.ReadingPosition) error {
	if r.baseURL == "" {
		return fmt.Errorf("relay remote url is not configured")
	}
	body, err := json.Marshal(positiondto.FromDomain(position))
	if err != nil {
		return fmt.Errorf("marshal position: %w", err)
	}
	endpoint := fmt.Sprintf("%s/books/%s/positions/%s", r.baseURL, url.PathEscape(bookID), url.PathEscape(position.DeviceID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("put position: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("put position: remote returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
