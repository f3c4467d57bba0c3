// Package remote mirrors saved portfolios to the backend API. The
// local snapshot is the source of truth; the backend copy is best
// effort and a failed upload only downgrades the confirmation toast.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"folio/internal/bus"
	"folio/internal/types"
)

const (
	msgSaved      = "Portfolio saved successfully!"
	msgSavedLocal = "Failed to save portfolio on the server. Saved locally."
)

const saveTimeout = 10 * time.Second

// Client uploads snapshots to the backend.
type Client struct {
	baseURL string
	http    *http.Client
	bus     *bus.Bus
	log     *zap.Logger
}

// NewClient builds a Client for the given backend base URL, e.g.
// "http://localhost:8000".
func NewClient(baseURL string, b *bus.Bus, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: saveTimeout},
		bus:     b,
		log:     log,
	}
}

type saveResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Save uploads the portfolio and emits the outcome toast: a success
// toast with the assigned id, or the saved-locally fallback when the
// backend is unreachable or rejects the upload. The returned id is
// empty on failure; the error is informational since the local save
// has already happened.
func (c *Client) Save(ctx context.Context, p types.Portfolio) (string, error) {
	id, err := c.upload(ctx, p)
	if err != nil {
		c.log.Warn("server save failed", zap.Error(err))
		c.toast(msgSavedLocal, bus.ToastError)
		return "", err
	}
	c.toast(msgSaved, bus.ToastSuccess)
	return id, nil
}

func (c *Client) upload(ctx context.Context, p types.Portfolio) (string, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode portfolio: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/portfolio", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("post portfolio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("post portfolio: status %d", resp.StatusCode)
	}

	var out saveResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode save response: %w", err)
	}
	return out.ID, nil
}

func (c *Client) toast(msg string, typ bus.ToastType) {
	if c.bus != nil {
		c.bus.PublishToast(msg, typ)
	}
}
