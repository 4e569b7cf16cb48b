package source

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"eventradar/internal/client/seatgeek"
	"eventradar/internal/config"
)

const (
	seatgeekCity    = "London"
	seatgeekCountry = "GB"
	seatgeekPerPage = 100
)

var seatgeekCategories = map[string]string{
	"concert":   "music",
	"sports":    "sports",
	"theater":   "theatre",
	"comedy":    "comedy",
	"festival":  "festival",
	"family":    "family",
	"classical": "classical",
	"broadway":  "theatre",
	"nba":       "sports",
	"nfl":       "sports",
	"mlb":       "sports",
	"nhl":       "sports",
	"soccer":    "sports",
	"mls":       "sports",
}

// SeatGeek adapts the SeatGeek platform API to the DataSource
// contract.
type SeatGeek struct {
	cfg    config.SeatGeekConfig
	client *seatgeek.Client
	logger *zap.Logger
}

func NewSeatGeek(cfg config.SeatGeekConfig, logger *zap.Logger) *SeatGeek {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	return &SeatGeek{
		cfg:    cfg,
		client: seatgeek.NewClient(httpClient, cfg.BaseURL, cfg.ClientID),
		logger: logger,
	}
}

func (s *SeatGeek) Name() string       { return "seatgeek" }
func (s *SeatGeek) SourceType() string { return "api" }
func (s *SeatGeek) Enabled() bool      { return s != nil && s.cfg.ClientID != "" }

func (s *SeatGeek) RateLimitDelay() time.Duration { return 300 * time.Millisecond }

func (s *SeatGeek) Validate(rec Record) bool { return Validate(rec) }

func (s *SeatGeek) FetchEvents(ctx context.Context, start, end time.Time) ([]Record, error) {
	if !s.Enabled() {
		s.logger.Warn("seatgeek client ID not configured")
		return nil, nil
	}

	var records []Record
	page := 1
	for {
		if page > 1 {
			if err := pause(ctx, s.RateLimitDelay()); err != nil {
				return nil, err
			}
		}
		resp, err := s.client.Events(ctx, seatgeek.EventsQuery{
			VenueCity:    seatgeekCity,
			VenueCountry: seatgeekCountry,
			Start:        start,
			End:          end,
			PerPage:      seatgeekPerPage,
			Page:         page,
		})
		if err != nil {
			return nil, fmt.Errorf("seatgeek events page %d: %w", page, err)
		}
		if len(resp.Events) == 0 {
			break
		}
		for _, ev := range resp.Events {
			rec := s.mapEvent(ev)
			if s.Validate(rec) {
				records = append(records, rec)
			}
		}
		s.logger.Info("seatgeek page fetched", zap.Int("page", page))
		if page*seatgeekPerPage >= resp.Meta.Total {
			break
		}
		page++
	}

	s.logger.Info("seatgeek fetch complete", zap.Int("events", len(records)))
	return records, nil
}

func (s *SeatGeek) mapEvent(ev seatgeek.Event) Record {
	rec := Record{
		Title:      ev.Title,
		StartDate:  parseTimeISO(ev.DatetimeLocal),
		OnSaleDate: parseTimeISO(ev.AnnounceDate),
		TicketURL:  strPtr(ev.URL),
		Currency:   "GBP",
		SourceName: s.Name(),
		SourceID:   fmt.Sprintf("%d", ev.ID),
		SourceURL:  strPtr(ev.URL),
		RawData:    rawToMap(ev.Raw),
	}

	rec.VenueName = strPtr(ev.Venue.Name)
	rec.VenueAddress = strPtr(ev.Venue.Address)
	rec.Latitude = ev.Venue.Location.Lat
	rec.Longitude = ev.Venue.Location.Lon

	if ev.Stats.LowestPrice != nil {
		min := decimal.NewFromFloat(*ev.Stats.LowestPrice)
		rec.PriceMin = &min
	}
	if ev.Stats.HighestPrice != nil {
		max := decimal.NewFromFloat(*ev.Stats.HighestPrice)
		rec.PriceMax = &max
	}
	if ev.Stats.ListingCount != nil {
		n := *ev.Stats.ListingCount
		rec.TicketsAvailable = &n
	}

	if len(ev.Performers) > 0 {
		rec.ImageURL = strPtr(ev.Performers[0].Image)
	}

	var cats []string
	if ev.Type != "" {
		cats = append(cats, mapCategory(seatgeekCategories, ev.Type, ""))
	}
	for _, tax := range ev.Taxonomies {
		if tax.Name != "" {
			cats = append(cats, mapCategory(seatgeekCategories, tax.Name, ""))
		}
	}
	rec.Categories = dedupeCategories(cats, 5)

	return rec
}
