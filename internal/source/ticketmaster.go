package source

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"eventradar/internal/client/ticketmaster"
	"eventradar/internal/config"
)

const (
	ticketmasterCity    = "London"
	ticketmasterCountry = "GB"
)

var ticketmasterCategories = map[string]string{
	"music":          "music",
	"sports":         "sports",
	"arts & theatre": "theatre",
	"film":           "film",
	"miscellaneous":  "other",
	"family":         "family",
}

// Ticketmaster adapts the Discovery API to the DataSource contract.
type Ticketmaster struct {
	cfg    config.TicketmasterConfig
	client *ticketmaster.Client
	logger *zap.Logger
}

func NewTicketmaster(cfg config.TicketmasterConfig, logger *zap.Logger) *Ticketmaster {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	return &Ticketmaster{
		cfg:    cfg,
		client: ticketmaster.NewClient(httpClient, cfg.BaseURL, cfg.APIKey),
		logger: logger,
	}
}

func (s *Ticketmaster) Name() string       { return "ticketmaster" }
func (s *Ticketmaster) SourceType() string { return "api" }
func (s *Ticketmaster) Enabled() bool      { return s != nil && s.cfg.APIKey != "" }

// Discovery allows 5 requests per second.
func (s *Ticketmaster) RateLimitDelay() time.Duration { return 200 * time.Millisecond }

func (s *Ticketmaster) Validate(rec Record) bool { return Validate(rec) }

func (s *Ticketmaster) FetchEvents(ctx context.Context, start, end time.Time) ([]Record, error) {
	if !s.Enabled() {
		s.logger.Warn("ticketmaster API key not configured")
		return nil, nil
	}

	var records []Record
	page := 0
	totalPages := 1
	for page < totalPages {
		if page > 0 {
			if err := pause(ctx, s.RateLimitDelay()); err != nil {
				return nil, err
			}
		}
		resp, err := s.client.SearchEvents(ctx, ticketmaster.SearchQuery{
			City:        ticketmasterCity,
			CountryCode: ticketmasterCountry,
			Start:       start,
			End:         end,
			Page:        page,
		})
		if err != nil {
			return nil, fmt.Errorf("ticketmaster search page %d: %w", page, err)
		}
		for _, ev := range resp.Embedded.Events {
			rec := s.mapEvent(ev)
			if s.Validate(rec) {
				records = append(records, rec)
			}
		}
		if resp.Page.TotalPages > 0 {
			totalPages = resp.Page.TotalPages
		}
		page++
		s.logger.Info("ticketmaster page fetched",
			zap.Int("page", page),
			zap.Int("total_pages", totalPages))
	}

	s.logger.Info("ticketmaster fetch complete", zap.Int("events", len(records)))
	return records, nil
}

func (s *Ticketmaster) mapEvent(ev ticketmaster.Event) Record {
	rec := Record{
		Title:      ev.Name,
		StartDate:  parseTimeISO(ev.Dates.Start.DateTime),
		SaleStatus: ParseSaleStatus(ev.Dates.Status.Code),
		OnSaleDate: parseTimeISO(ev.Sales.Public.StartDateTime),
		TicketURL:  strPtr(ev.URL),
		Currency:   "GBP",
		SourceName: s.Name(),
		SourceID:   ev.ID,
		SourceURL:  strPtr(ev.URL),
		RawData:    rawToMap(ev.Raw),
	}
	if rec.StartDate == nil {
		rec.StartDate = parseTimeISO(ev.Dates.Start.LocalDate)
	}

	if len(ev.Embedded.Venues) > 0 {
		v := ev.Embedded.Venues[0]
		rec.VenueName = strPtr(v.Name)
		addr := fmt.Sprintf("%s, %s, %s", v.Address.Line1, v.City.Name, v.Address.PostalCode)
		rec.VenueAddress = &addr
		rec.Latitude = floatFromString(v.Location.Latitude)
		rec.Longitude = floatFromString(v.Location.Longitude)
	}

	if len(ev.PriceRanges) > 0 {
		pr := ev.PriceRanges[0]
		min := decimal.NewFromFloat(pr.Min)
		max := decimal.NewFromFloat(pr.Max)
		rec.PriceMin = &min
		rec.PriceMax = &max
		if pr.Currency != "" {
			rec.Currency = pr.Currency
		}
	}

	for i, img := range ev.Images {
		if i == 0 {
			rec.ImageURL = strPtr(img.URL)
		}
		if i < 5 {
			rec.Images = append(rec.Images, img.URL)
		}
	}

	if len(ev.Classifications) > 0 {
		cls := ev.Classifications[0]
		var cats []string
		if cls.Segment.Name != "" {
			cats = append(cats, mapCategory(ticketmasterCategories, cls.Segment.Name, ""))
		}
		if cls.Genre.Name != "" && cls.Genre.Name != cls.Segment.Name {
			cats = append(cats, mapCategory(ticketmasterCategories, cls.Genre.Name, ""))
		}
		rec.Categories = dedupeCategories(cats, 0)
	}

	return rec
}
