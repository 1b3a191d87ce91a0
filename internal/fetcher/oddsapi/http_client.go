package oddsapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.the-odds-api.com"

// Markets requested from the provider; "totals" carries the over/under lines.
const requestedMarkets = "h2h,totals"

type Client struct {
	baseURL string
	apiKey  string
	regions string
	client  *http.Client
}

func NewClient(baseURL, apiKey, regions string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	if regions == "" {
		regions = "eu"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		regions: regions,
		client:  &http.Client{Timeout: timeout},
	}
}

// GetOdds возвращает сырые события с коэффициентами в окне [from, to).
// GET /v4/sports/{sport}/odds?apiKey=...&regions=eu&markets=h2h,totals&commenceTimeFrom=...&commenceTimeTo=...
func (c *Client) GetOdds(ctx context.Context, sportKey string, from, to time.Time) ([]byte, error) {
	q := url.Values{}
	q.Set("apiKey", c.apiKey)
	q.Set("regions", c.regions)
	q.Set("markets", requestedMarkets)
	q.Set("oddsFormat", "decimal")
	q.Set("dateFormat", "iso")
	q.Set("commenceTimeFrom", from.UTC().Format("2006-01-02T15:04:05Z"))
	q.Set("commenceTimeTo", to.UTC().Format("2006-01-02T15:04:05Z"))
	u := fmt.Sprintf("%s/v4/sports/%s/odds?%s", c.baseURL, url.PathEscape(sportKey), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "tipsbot/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %s", redact(err.Error(), c.apiKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// redact hides the api key, which travels in the query string and so shows
// up in transport errors.
func redact(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, "***")
}
