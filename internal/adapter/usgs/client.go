// Package usgs fetches the earthquake summary feed published by the USGS.
package usgs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/quake-threat-map/internal/adapter/geojson"
	"github.com/couchcryptid/quake-threat-map/internal/domain"
)

// maxFeedBytes bounds the response body; the monthly all-quakes feed is well under this.
const maxFeedBytes = 64 << 20

// Client retrieves a GeoJSON earthquake feed over HTTP.
type Client struct {
	feedURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a feed client for feedURL.
func NewClient(feedURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		feedURL: feedURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchQuakes downloads and decodes the feed.
func (c *Client) FetchQuakes(ctx context.Context) ([]domain.QuakeRecord, error) {
	body, err := c.doRequest(ctx)
	if err != nil {
		return nil, err
	}

	quakes, err := geojson.DecodeQuakes(body)
	if err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	c.logger.Debug("feed fetched", "url", c.feedURL, "quakes", len(quakes), "bytes", len(body))
	return quakes, nil
}

func (c *Client) doRequest(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("feed error: status %d: %s", resp.StatusCode, body)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}
	return body, nil
}
