package apifootball

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
)

const defaultBaseURL = "https://v3.football.api-sports.io"

type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// GetFixtures возвращает матчи за день.
// GET /fixtures?date=2026-10-19&timezone=Europe/Madrid
func (c *Client) GetFixtures(ctx context.Context, date, timezone string) (*FixturesResponse, error) {
	q := url.Values{}
	q.Set("date", date)
	q.Set("timezone", timezone)
	u := fmt.Sprintf("%s/fixtures?%s", c.baseURL, q.Encode())

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var out FixturesResponse
	if err := json.NewDecoder(body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	if apiErr := providerErrors(out.Errors); apiErr != "" {
		return nil, fmt.Errorf("provider error: %s", apiErr)
	}
	return &out, nil
}

// providerErrors returns the provider's error payload, or "" when it is
// empty ([] or {}). api-football answers 200 even for a rejected key.
func providerErrors(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	switch string(trimmed) {
	case "", "null", "[]", "{}":
		return ""
	}
	return string(trimmed)
}

func (c *Client) get(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "tipsbot/1.0")
	req.Header.Set("x-apisports-key", c.apiKey)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return resp.Body, nil
}
