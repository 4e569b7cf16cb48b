// Package eventbrite is a minimal client for the Eventbrite API v3.
// API docs: https://www.eventbrite.com/platform/api
package eventbrite

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	host       string
	token      string
	httpClient *http.Client
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("eventbrite API error (%d): %s", e.Status, e.Body)
}

func NewClient(httpClient *http.Client, host, token string) *Client {
	if host == "" {
		host = "https://www.eventbriteapi.com/v3"
	}
	host = strings.TrimRight(host, "/")
	return &Client{
		host:       host,
		token:      token,
		httpClient: httpClient,
	}
}

func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	fullURL := c.host + path
	if len(query) > 0 {
		fullURL = fullURL + "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

type SearchQuery struct {
	LocationAddress string
	LocationWithin  string
	Start           time.Time
	End             time.Time
	// Continuation resumes a previous page; empty for the first page.
	Continuation string
}

// SearchEvents fetches one page of the event search. Callers follow
// SearchPage.Pagination.Continuation while HasMoreItems is true.
func (c *Client) SearchEvents(ctx context.Context, q SearchQuery) (*SearchPage, error) {
	query := url.Values{}
	query.Set("location.address", q.LocationAddress)
	if q.LocationWithin != "" {
		query.Set("location.within", q.LocationWithin)
	}
	query.Set("start_date.range_start", q.Start.UTC().Format("2006-01-02T15:04:05Z"))
	query.Set("start_date.range_end", q.End.UTC().Format("2006-01-02T15:04:05Z"))
	query.Set("expand", "venue,ticket_availability,category")
	if q.Continuation != "" {
		query.Set("continuation", q.Continuation)
	}

	body, err := c.doRequest(ctx, "/events/search/", query)
	if err != nil {
		return nil, err
	}
	var page SearchPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to parse search page: %w", err)
	}
	return &page, nil
}
