// Package wiki fetches article summaries from a Wikipedia REST endpoint.
package wiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://ru.wikipedia.org/api/rest_v1"

var (
	ErrEmptyQuery = errors.New("wiki: empty query")
	ErrNotFound   = errors.New("wiki: article not found")
	ErrBadStatus  = errors.New("wiki: unexpected status")
)

// Summary is the part of the page summary response the bot renders.
type Summary struct {
	Title   string
	Extract string
	PageURL string // may be empty
}

type Client struct {
	base   string
	client *http.Client
}

// New returns a client for base (DefaultBaseURL when empty). A zero timeout
// leaves deadlines to the request context.
func New(base string, timeout time.Duration) *Client {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		base:   base,
		client: &http.Client{Timeout: timeout},
	}
}

type summaryResponse struct {
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// Summary performs one GET {base}/page/summary/{query}. No retries.
func (c *Client) Summary(ctx context.Context, query string) (Summary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Summary{}, ErrEmptyQuery
	}

	u := c.base + "/page/summary/" + url.PathEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Summary{}, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "modbot/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return Summary{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Summary{}, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return Summary{}, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Summary{}, fmt.Errorf("%w: http %d", ErrBadStatus, resp.StatusCode)
	}

	var parsed summaryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Summary{}, fmt.Errorf("wiki decode: %w", err)
	}
	return Summary{
		Title:   parsed.Title,
		Extract: parsed.Extract,
		PageURL: parsed.ContentURLs.Desktop.Page,
	}, nil
}
