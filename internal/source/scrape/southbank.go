package scrape

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"eventradar/internal/config"
	"eventradar/internal/source"
)

const (
	southbankBaseURL = "https://www.southbankcentre.co.uk"
	southbankAddress = "Belvedere Road, London SE1 8XX"
)

var (
	southbankCardClassRe  = regexp.MustCompile(`(?i)event|card|listing|performance|show|item|tile`)
	southbankTitleClassRe = regexp.MustCompile(`(?i)title|name|heading`)
	southbankDescClassRe  = regexp.MustCompile(`(?i)description|excerpt|summary|content|teaser|intro`)
	southbankDateClassRe  = regexp.MustCompile(`(?i)date|time|when`)
	southbankPriceClassRe = regexp.MustCompile(`(?i)price|cost|ticket|from`)
	southbankVenueClassRe = regexp.MustCompile(`(?i)venue|location|hall|space`)
	priceAmountRe         = regexp.MustCompile(`£?(\d+(?:\.\d{2})?)`)
)

// Southbank scrapes southbankcentre.co.uk. The site groups several
// venues (Royal Festival Hall, Queen Elizabeth Hall, Purcell Room,
// Hayward Gallery) under category listing pages; markup is a mix of
// card grids, so the selectors are deliberately loose.
type Southbank struct {
	cfg     config.ScrapersConfig
	fetcher *Fetcher
	logger  *zap.Logger
}

func NewSouthbank(cfg config.ScrapersConfig, logger *zap.Logger) *Southbank {
	return &Southbank{
		cfg:     cfg,
		fetcher: NewFetcher(cfg, logger),
		logger:  logger,
	}
}

func (s *Southbank) Name() string       { return "southbank_centre" }
func (s *Southbank) SourceType() string { return "scraper" }
func (s *Southbank) Enabled() bool      { return s != nil && s.cfg.Enabled }

func (s *Southbank) RateLimitDelay() time.Duration { return s.cfg.Delay }

func (s *Southbank) Validate(rec source.Record) bool { return source.Validate(rec) }

func (s *Southbank) listingURLs() []string {
	base := southbankBaseURL + "/whats-on"
	urls := []string{base}
	for _, section := range []string{
		"music", "classical", "contemporary", "dance",
		"art", "literature", "talks", "family",
	} {
		urls = append(urls, base+"/"+section)
	}
	return urls
}

func (s *Southbank) FetchEvents(ctx context.Context, start, end time.Time) ([]source.Record, error) {
	seen := make(map[string]struct{})
	var records []source.Record

	for _, pageURL := range s.listingURLs() {
		s.logger.Info("scraping", zap.String("url", pageURL))
		doc, err := s.fetcher.Document(ctx, pageURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn("listing page failed", zap.String("url", pageURL), zap.Error(err))
			continue
		}

		for _, rec := range s.parseListing(doc, pageURL) {
			if rec.StartDate.Before(start) || rec.StartDate.After(end) {
				continue
			}
			if !s.Validate(rec) {
				continue
			}
			if _, dup := seen[rec.SourceID]; dup {
				continue
			}
			seen[rec.SourceID] = struct{}{}
			records = append(records, rec)
		}
	}

	s.logger.Info("southbank scrape complete", zap.Int("events", len(records)))
	return records, nil
}

func (s *Southbank) parseListing(doc *goquery.Document, pageURL string) []source.Record {
	cards := doc.Find("div, article, li, a").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		cls, _ := sel.Attr("class")
		return southbankCardClassRe.MatchString(cls)
	})
	if cards.Length() == 0 {
		cards = doc.Find(`a[href*="/whats-on/"], a[href*="/events/"]`)
	}

	var records []source.Record
	cards.Each(func(_ int, card *goquery.Selection) {
		if rec, ok := s.parseCard(card, pageURL); ok {
			records = append(records, rec)
		}
	})
	return records
}

func (s *Southbank) parseCard(card *goquery.Selection, pageURL string) (source.Record, bool) {
	titleElem := findByClass(card, "h1, h2, h3, h4, h5", southbankTitleClassRe)
	if titleElem.Length() == 0 {
		titleElem = card.Find("h1, h2, h3, h4, h5").First()
	}
	title := strings.TrimSpace(titleElem.Text())
	if title == "" {
		return source.Record{}, false
	}

	href, ok := card.Find("a[href]").First().Attr("href")
	if !ok {
		if card.Is("a") {
			href, _ = card.Attr("href")
		}
	}
	eventURL := resolveURL(southbankBaseURL, href)
	if eventURL == "" {
		return source.Record{}, false
	}
	if !strings.Contains(eventURL, "/whats-on/") && !strings.Contains(eventURL, "/events/") {
		return source.Record{}, false
	}
	sourceID := sourceIDFromURL(eventURL)
	if sourceID == "" {
		return source.Record{}, false
	}

	var imageURL *string
	if img := card.Find("img").First(); img.Length() > 0 {
		src := firstAttr(img, "src", "data-src", "data-lazy-src")
		imageURL = strPtr(resolveURL(southbankBaseURL, src))
	}

	description := strPtr(strings.TrimSpace(findByClass(card, "p, div", southbankDescClassRe).Text()))

	startDate := s.parseCardDate(card)
	if startDate == nil {
		return source.Record{}, false
	}

	priceMin, priceMax := parsePriceText(findByClass(card, "span, div", southbankPriceClassRe).Text())

	venue := southbankVenue(findByClass(card, "span, div", southbankVenueClassRe).Text())

	var categories []string
	if cat := southbankCategory(pageURL, title, description); cat != "" {
		categories = append(categories, cat)
	}

	address := southbankAddress
	return source.Record{
		Title:        title,
		Description:  description,
		StartDate:    startDate,
		VenueName:    &venue,
		VenueAddress: &address,
		TicketURL:    &eventURL,
		PriceMin:     priceMin,
		PriceMax:     priceMax,
		Currency:     "GBP",
		ImageURL:     imageURL,
		Categories:   categories,
		SourceName:   s.Name(),
		SourceID:     sourceID,
		SourceURL:    &eventURL,
	}, true
}

func (s *Southbank) parseCardDate(card *goquery.Selection) *time.Time {
	dateElem := findByClass(card, "time, span, div", southbankDateClassRe)
	// Machine-readable datetime attributes win over display text.
	if dt, ok := dateElem.Attr("datetime"); ok {
		if t, err := time.Parse(time.RFC3339, dt); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return parseCardDate(dateElem.Text(), time.Now())
}

// findByClass returns the first element matching selector whose class
// attribute matches re.
func findByClass(card *goquery.Selection, selector string, re *regexp.Regexp) *goquery.Selection {
	return card.Find(selector).FilterFunction(func(_ int, sel *goquery.Selection) bool {
		cls, _ := sel.Attr("class")
		return re.MatchString(cls)
	}).First()
}

func firstAttr(sel *goquery.Selection, names ...string) string {
	for _, name := range names {
		if v, ok := sel.Attr(name); ok && v != "" {
			return v
		}
	}
	return ""
}

func parsePriceText(text string) (*decimal.Decimal, *decimal.Decimal) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return nil, nil
	}
	if strings.Contains(text, "free") {
		zero := decimal.Zero
		return &zero, &zero
	}
	matches := priceAmountRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil, nil
	}
	min, max := 0.0, 0.0
	for i, m := range matches {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if i == 0 || v < min {
			min = v
		}
		if i == 0 || v > max {
			max = v
		}
	}
	dmin := decimal.NewFromFloat(min)
	dmax := decimal.NewFromFloat(max)
	return &dmin, &dmax
}

func southbankVenue(text string) string {
	lower := strings.ToLower(strings.TrimSpace(text))
	switch {
	case strings.Contains(lower, "royal festival hall"), strings.Contains(lower, "rfh"):
		return "Royal Festival Hall, Southbank Centre"
	case strings.Contains(lower, "queen elizabeth hall"), strings.Contains(lower, "qeh"):
		return "Queen Elizabeth Hall, Southbank Centre"
	case strings.Contains(lower, "purcell room"):
		return "Purcell Room, Southbank Centre"
	case strings.Contains(lower, "hayward"):
		return "Hayward Gallery, Southbank Centre"
	case strings.Contains(lower, "southbank"):
		return strings.TrimSpace(text)
	}
	return "Southbank Centre"
}

func southbankCategory(pageURL, title string, description *string) string {
	lowerURL := strings.ToLower(pageURL)
	switch {
	case strings.Contains(lowerURL, "/music"), strings.Contains(lowerURL, "/classical"):
		return "music"
	case strings.Contains(lowerURL, "/contemporary"):
		return "contemporary"
	case strings.Contains(lowerURL, "/dance"):
		return "dance"
	case strings.Contains(lowerURL, "/art"):
		return "arts"
	case strings.Contains(lowerURL, "/literature"):
		return "literature"
	case strings.Contains(lowerURL, "/talks"):
		return "talks"
	case strings.Contains(lowerURL, "/family"):
		return "family"
	}

	combined := strings.ToLower(title)
	if description != nil {
		combined += " " + strings.ToLower(*description)
	}
	contains := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(combined, w) {
				return true
			}
		}
		return false
	}
	switch {
	case contains("concert", "music", "orchestra", "classical", "jazz"):
		return "music"
	case contains("dance", "ballet", "choreography"):
		return "dance"
	case contains("exhibition", "gallery", "art", "artist"):
		return "arts"
	case contains("literature", "poetry", "author", "book"):
		return "literature"
	case contains("talk", "discussion", "lecture", "conversation"):
		return "talks"
	case contains("family", "kids", "children"):
		return "family"
	}
	return "arts"
}
