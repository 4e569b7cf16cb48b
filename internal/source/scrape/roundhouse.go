package scrape

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"eventradar/internal/config"
	"eventradar/internal/source"
)

const (
	roundhouseBaseURL = "https://www.roundhouse.org.uk"
	roundhouseAddress = "Chalk Farm Road, London NW1 8EH"
)

// Roundhouse scrapes roundhouse.org.uk. Server-rendered HTML with
// clean CSS selectors; events are .event-card elements on the
// /whats-on/ page.
type Roundhouse struct {
	cfg     config.ScrapersConfig
	fetcher *Fetcher
	logger  *zap.Logger
}

func NewRoundhouse(cfg config.ScrapersConfig, logger *zap.Logger) *Roundhouse {
	return &Roundhouse{
		cfg:     cfg,
		fetcher: NewFetcher(cfg, logger),
		logger:  logger,
	}
}

func (s *Roundhouse) Name() string       { return "roundhouse" }
func (s *Roundhouse) SourceType() string { return "scraper" }
func (s *Roundhouse) Enabled() bool      { return s != nil && s.cfg.Enabled }

func (s *Roundhouse) RateLimitDelay() time.Duration { return s.cfg.Delay }

func (s *Roundhouse) Validate(rec source.Record) bool { return source.Validate(rec) }

func (s *Roundhouse) FetchEvents(ctx context.Context, start, end time.Time) ([]source.Record, error) {
	listingURL := roundhouseBaseURL + "/whats-on/"
	s.logger.Info("scraping", zap.String("url", listingURL))

	doc, err := s.fetcher.Document(ctx, listingURL)
	if err != nil {
		return nil, err
	}

	var records []source.Record
	doc.Find(".event-card").Each(func(_ int, card *goquery.Selection) {
		rec, ok := s.parseCard(card)
		if !ok {
			return
		}
		if rec.StartDate.Before(start) || rec.StartDate.After(end) {
			return
		}
		if s.Validate(rec) {
			records = append(records, rec)
		}
	})

	s.logger.Info("roundhouse scrape complete", zap.Int("events", len(records)))
	return records, nil
}

func (s *Roundhouse) parseCard(card *goquery.Selection) (source.Record, bool) {
	title := strings.TrimSpace(card.Find(".event-card__title").First().Text())
	if title == "" {
		return source.Record{}, false
	}

	link := card.Find("a.event-card__link").First()
	if link.Length() == 0 {
		link = card.Find("a").First()
	}
	href, _ := link.Attr("href")
	eventURL := resolveURL(roundhouseBaseURL, href)
	if eventURL == "" {
		return source.Record{}, false
	}
	sourceID := sourceIDFromURL(eventURL)
	if sourceID == "" {
		return source.Record{}, false
	}

	startDate := parseCardDate(card.Find(".event-card__date").First().Text(), time.Now())
	if startDate == nil {
		s.logger.Debug("skipping card without parseable date", zap.String("title", title))
		return source.Record{}, false
	}

	var imageURL *string
	if img := card.Find("img").First(); img.Length() > 0 {
		src, ok := img.Attr("src")
		if !ok || src == "" {
			src, _ = img.Attr("data-src")
		}
		imageURL = strPtr(resolveURL(roundhouseBaseURL, src))
	}

	venue := "Roundhouse"
	address := roundhouseAddress
	return source.Record{
		Title:        title,
		StartDate:    startDate,
		VenueName:    &venue,
		VenueAddress: &address,
		TicketURL:    &eventURL,
		Currency:     "GBP",
		ImageURL:     imageURL,
		Categories:   []string{roundhouseCategory(title)},
		SourceName:   s.Name(),
		SourceID:     sourceID,
		SourceURL:    &eventURL,
	}, true
}

func roundhouseCategory(title string) string {
	lower := strings.ToLower(title)
	contains := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}
	switch {
	case contains("concert", "music", "band", "singer", "live", "dj"):
		return "music"
	case contains("comedy", "comedian", "stand-up"):
		return "comedy"
	case contains("theatre", "play", "drama", "musical"):
		return "theatre"
	case contains("dance", "ballet"):
		return "dance"
	case contains("circus", "cabaret"):
		return "entertainment"
	case contains("family", "kids", "children"):
		return "family"
	}
	return "arts"
}
