package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/wonny/ichiba/pkg/httputil"
	"github.com/wonny/ichiba/pkg/logger"
)

// Client handles communication with the Yahoo Finance API
// ⭐ SSOT: Yahoo Finance 呼び出しはこのクライアントだけ
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Yahoo Finance client
func NewClient(httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    "https://query1.finance.yahoo.com",
	}
}

// fetchJSON fetches a JSON document from the API and decodes it into out
func (c *Client) fetchJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	fullURL := fmt.Sprintf("%s%s", c.baseURL, path)
	if len(params) > 0 {
		fullURL = fmt.Sprintf("%s?%s", fullURL, params.Encode())
	}

	body, err := c.httpClient.GetBody(ctx, fullURL)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
