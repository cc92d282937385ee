package seeder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// client wraps http.Client with the base URL and session header.
type client struct {
	http       *http.Client
	baseURL    string
	sessionKey string
}

func newClient(baseURL, sessionKey string, timeout time.Duration) *client {
	return &client{
		http:       &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		sessionKey: sessionKey,
	}
}

func (c *client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-Key", c.sessionKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, data)
	}
	return data, nil
}

func (c *client) post(ctx context.Context, path string, body any) error {
	_, err := c.do(ctx, http.MethodPost, path, body)
	return err
}

// journeyView mirrors the /journey response.
type journeyView struct {
	Phase            string   `json:"phase"`
	UnlockedProducts []string `json:"unlocked_products"`
	RecommendedNext  string   `json:"recommended_next"`
}

func (c *client) journey(ctx context.Context) (*journeyView, error) {
	data, err := c.do(ctx, http.MethodGet, "/journey", nil)
	if err != nil {
		return nil, err
	}
	var j journeyView
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("decode journey: %w", err)
	}
	return &j, nil
}

// summaryView mirrors the /products/{id}/summary response.
type summaryView struct {
	Status      string `json:"status"`
	Headline    string `json:"headline"`
	ProgressPct int    `json:"progress_pct"`
	Route       string `json:"route"`
}

func (c *client) summary(ctx context.Context, productID string) (*summaryView, error) {
	data, err := c.do(ctx, http.MethodGet, "/products/"+productID+"/summary", nil)
	if err != nil {
		return nil, err
	}
	var s summaryView
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}
	return &s, nil
}
