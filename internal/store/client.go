package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
)

// Client talks to the booking store's REST surface. The store speaks the
// PostgREST filter dialect (status=eq.paid, id=in.(a,b)) and authenticates
// with a service-role key sent both as apikey and bearer token.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

func NewClient(baseURL, serviceKey string) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("booking store URL is not configured")
	}
	if strings.TrimSpace(serviceKey) == "" {
		return nil, fmt.Errorf("booking store service key is not configured")
	}
	return &Client{
		baseURL:    baseURL,
		serviceKey: strings.TrimSpace(serviceKey),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// GetJSON issues a read against the store's REST root and decodes the
// response into out. params is encoded with url struct tags.
func (c *Client) GetJSON(ctx context.Context, path string, params, out any) error {
	url := c.baseURL + "/rest/v1" + path
	if params != nil {
		values, err := query.Values(params)
		if err != nil {
			return fmt.Errorf("encode store query: %w", err)
		}
		if encoded := values.Encode(); encoded != "" {
			url += "?" + encoded
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build store request: %w", err)
	}
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("store request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("store request %s failed (%d): %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode store response for %s: %w", path, err)
	}
	return nil
}
