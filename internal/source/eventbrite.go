package source

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"eventradar/internal/client/eventbrite"
	"eventradar/internal/config"
)

const (
	eventbriteLocation = "London, United Kingdom"
	eventbriteRadius   = "25mi"
)

var eventbriteCategories = map[string]string{
	"music":                       "music",
	"business & professional":     "business",
	"food & drink":                "food",
	"community & culture":         "community",
	"performing & visual arts":    "arts",
	"film, media & entertainment": "entertainment",
	"sports & fitness":            "sports",
	"health & wellness":           "wellness",
	"science & technology":        "tech",
	"travel & outdoor":            "outdoor",
	"charity & causes":            "charity",
	"religion & spirituality":     "spirituality",
	"family & education":          "family",
	"seasonal & holiday":          "holiday",
	"government & politics":       "politics",
	"fashion & beauty":            "fashion",
	"home & lifestyle":            "lifestyle",
	"auto, boat & air":            "automotive",
	"hobbies & special interest":  "hobbies",
	"other":                       "other",
}

// Eventbrite adapts the Eventbrite search API to the DataSource
// contract.
type Eventbrite struct {
	cfg    config.EventbriteConfig
	client *eventbrite.Client
	logger *zap.Logger
}

func NewEventbrite(cfg config.EventbriteConfig, logger *zap.Logger) *Eventbrite {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	return &Eventbrite{
		cfg:    cfg,
		client: eventbrite.NewClient(httpClient, cfg.BaseURL, cfg.APIToken),
		logger: logger,
	}
}

func (s *Eventbrite) Name() string       { return "eventbrite" }
func (s *Eventbrite) SourceType() string { return "api" }
func (s *Eventbrite) Enabled() bool      { return s != nil && s.cfg.APIToken != "" }

func (s *Eventbrite) RateLimitDelay() time.Duration { return 500 * time.Millisecond }

func (s *Eventbrite) Validate(rec Record) bool { return Validate(rec) }

func (s *Eventbrite) FetchEvents(ctx context.Context, start, end time.Time) ([]Record, error) {
	if !s.Enabled() {
		s.logger.Warn("eventbrite API token not configured")
		return nil, nil
	}

	var records []Record
	continuation := ""
	for {
		if continuation != "" {
			if err := pause(ctx, s.RateLimitDelay()); err != nil {
				return nil, err
			}
		}
		resp, err := s.client.SearchEvents(ctx, eventbrite.SearchQuery{
			LocationAddress: eventbriteLocation,
			LocationWithin:  eventbriteRadius,
			Start:           start,
			End:             end,
			Continuation:    continuation,
		})
		if err != nil {
			return nil, fmt.Errorf("eventbrite search: %w", err)
		}
		for _, ev := range resp.Events {
			rec := s.mapEvent(ev)
			if s.Validate(rec) {
				records = append(records, rec)
			}
		}
		s.logger.Info("eventbrite page fetched", zap.Int("events", len(resp.Events)))
		if !resp.Pagination.HasMoreItems || resp.Pagination.Continuation == "" {
			break
		}
		continuation = resp.Pagination.Continuation
	}

	s.logger.Info("eventbrite fetch complete", zap.Int("events", len(records)))
	return records, nil
}

func (s *Eventbrite) mapEvent(ev eventbrite.Event) Record {
	rec := Record{
		Title:       ev.Name.Text,
		Description: strPtr(ev.Description.Text),
		StartDate:   parseTimeISO(ev.Start.UTC),
		EndDate:     parseTimeISO(ev.End.UTC),
		TicketURL:   strPtr(ev.URL),
		Currency:    "GBP",
		SourceName:  s.Name(),
		SourceID:    ev.ID,
		SourceURL:   strPtr(ev.URL),
		RawData:     rawToMap(ev.Raw),
	}

	if ev.Venue != nil {
		rec.VenueName = strPtr(ev.Venue.Name)
		addr := fmt.Sprintf("%s, %s, %s",
			ev.Venue.Address.Address1, ev.Venue.Address.City, ev.Venue.Address.PostalCode)
		rec.VenueAddress = &addr
		rec.Latitude = floatFromString(ev.Venue.Latitude)
		rec.Longitude = floatFromString(ev.Venue.Longitude)
	}

	if ev.IsFree {
		zero := decimal.Zero
		rec.PriceMin = &zero
		rec.PriceMax = &zero
	}

	// Search results only expose a sold-out flag, not counts.
	if ev.TicketAvailability != nil {
		if ev.TicketAvailability.IsSoldOut {
			rec.SaleStatus = SaleStatusSoldOut
			n := 0
			rec.TicketsAvailable = &n
		} else {
			rec.SaleStatus = SaleStatusOnSale
		}
	}

	if ev.Logo != nil {
		rec.ImageURL = strPtr(ev.Logo.URL)
	}

	if ev.Category != nil && ev.Category.Name != "" {
		rec.Categories = []string{mapCategory(eventbriteCategories, ev.Category.Name, "other")}
	}

	return rec
}
