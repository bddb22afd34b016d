package shopping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopeat/go-shopeat/internal/httpc"
)

// Client accesses the backend's REST shopping-list endpoints.
// The websocket protocol is the primary list-sync path; this client exists
// for the initial fetch and for non-voice tooling.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a REST client for the given base URL, e.g.
// "http://localhost:8000".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    httpc.Client,
	}
}

// List fetches the current shopping list.
func (c *Client) List(ctx context.Context) (Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/shopping-list", nil)
	if err != nil {
		return Snapshot{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Snapshot{}, fmt.Errorf("shopping: list request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Snapshot{}, fmt.Errorf("shopping: list request returned %d", resp.StatusCode)
	}

	var snapshot Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("shopping: decoding list response: %w", err)
	}
	return snapshot, nil
}

// Add posts a new item to the shopping list.
func (c *Client) Add(ctx context.Context, item Item) error {
	body, err := json.Marshal(item.Normalize())
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/shopping-list", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("shopping: add request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("shopping: add request returned %d", resp.StatusCode)
	}
	return nil
}
