// Package seatgeek is a minimal client for the SeatGeek platform API.
// API docs: https://platform.seatgeek.com/
package seatgeek

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
	clientID   string
	httpClient *http.Client
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("seatgeek API error (%d): %s", e.Status, e.Body)
}

func NewClient(httpClient *http.Client, host, clientID string) *Client {
	if host == "" {
		host = "https://api.seatgeek.com/2"
	}
	host = strings.TrimRight(host, "/")
	return &Client{
		host:       host,
		clientID:   clientID,
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

type EventsQuery struct {
	VenueCity    string
	VenueCountry string
	Start        time.Time
	End          time.Time
	PerPage      int
	Page         int
}

// Events fetches one page of the event listing. Callers page through
// while Page*PerPage < Meta.Total.
func (c *Client) Events(ctx context.Context, q EventsQuery) (*EventsPage, error) {
	query := url.Values{}
	query.Set("client_id", c.clientID)
	if q.VenueCity != "" {
		query.Set("venue.city", q.VenueCity)
	}
	if q.VenueCountry != "" {
		query.Set("venue.country", q.VenueCountry)
	}
	query.Set("datetime_local.gte", q.Start.Format("2006-01-02"))
	query.Set("datetime_local.lte", q.End.Format("2006-01-02"))
	perPage := q.PerPage
	if perPage <= 0 {
		perPage = 100
	}
	query.Set("per_page", strconv.Itoa(perPage))
	page := q.Page
	if page <= 0 {
		page = 1
	}
	query.Set("page", strconv.Itoa(page))

	body, err := c.doRequest(ctx, "/events", query)
	if err != nil {
		return nil, err
	}
	var out EventsPage
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse events page: %w", err)
	}
	return &out, nil
}
