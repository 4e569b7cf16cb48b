// Package ticketmaster is a minimal client for the Ticketmaster
// Discovery API v2.
// API docs: https://developer.ticketmaster.com/products-and-docs/apis/discovery-api/v2/
package ticketmaster

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Client struct {
	host       string
	apiKey     string
	httpClient *http.Client
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ticketmaster API error (%d): %s", e.Status, e.Body)
}

func NewClient(httpClient *http.Client, host, apiKey string) *Client {
	if host == "" {
		host = "https://app.ticketmaster.com/discovery/v2"
	}
	host = strings.TrimRight(host, "/")
	return &Client{
		host:       host,
		apiKey:     apiKey,
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
	City        string
	CountryCode string
	Start       time.Time
	End         time.Time
	Size        int
	Page        int
}

// SearchEvents fetches one page of the event search. Callers page
// through using EventsPage.Page.TotalPages.
func (c *Client) SearchEvents(ctx context.Context, q SearchQuery) (*EventsPage, error) {
	query := url.Values{}
	query.Set("apikey", c.apiKey)
	if q.City != "" {
		query.Set("city", q.City)
	}
	if q.CountryCode != "" {
		query.Set("countryCode", q.CountryCode)
	}
	query.Set("startDateTime", q.Start.UTC().Format("2006-01-02T15:04:05Z"))
	query.Set("endDateTime", q.End.UTC().Format("2006-01-02T15:04:05Z"))
	size := q.Size
	if size <= 0 {
		size = 200
	}
	query.Set("size", strconv.Itoa(size))
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("sort", "date,asc")

	body, err := c.doRequest(ctx, "/events.json", query)
	if err != nil {
		return nil, err
	}
	var page EventsPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to parse events page: %w", err)
	}
	return &page, nil
}
