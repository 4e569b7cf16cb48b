// Package scrape holds the venue-website adapters. They share a
// Fetcher that applies the configured user agent, timeout, and
// inter-request delay; venue sites get slower, politer traffic than
// API hosts.
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"eventradar/internal/config"
)

type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	delay      time.Duration
	logger     *zap.Logger
}

func NewFetcher(cfg config.ScrapersConfig, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		userAgent:  cfg.UserAgent,
		delay:      cfg.Delay,
		logger:     logger,
	}
}

// Document fetches a page and parses it. The configured delay is
// honored before every request.
func (f *Fetcher) Document(ctx context.Context, pageURL string) (*goquery.Document, error) {
	if f.delay > 0 {
		timer := time.NewTimer(f.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	return doc, nil
}

// resolveURL absolutizes hrefs the way venue sites emit them:
// absolute, protocol-relative, or site-relative.
func resolveURL(base, href string) string {
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "http"):
		return href
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	default:
		return base + href
	}
}

// sourceIDFromURL derives a stable identifier from the last URL path
// segment, stripped of query and fragment.
func sourceIDFromURL(eventURL string) string {
	trimmed := strings.TrimRight(eventURL, "/")
	id := trimmed[strings.LastIndex(trimmed, "/")+1:]
	if i := strings.IndexAny(id, "?#"); i >= 0 {
		id = id[:i]
	}
	return id
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
