package ingest

import (
	"context"
	"time"

	"gorm.io/gorm"

	"eventradar/internal/models"
	"eventradar/internal/repository"
)

// stubRepo is a test-only in-memory implementation of
// repository.Repository. Transactions are no-ops; writes apply
// immediately.
type stubRepo struct {
	events     []models.Event
	history    []models.AvailabilityHistory
	health     map[string]models.ProviderHealth
	alerts     []models.Alert
	categories map[string]models.Category

	nextEventID    uint64
	nextCategoryID uint64
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		health:     make(map[string]models.ProviderHealth),
		categories: make(map[string]models.Category),
	}
}

func (s *stubRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (s *stubRepo) GetEventByID(ctx context.Context, id uint64) (*models.Event, error) {
	for i := range s.events {
		if s.events[i].ID == id {
			ev := s.events[i]
			return &ev, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) GetEventBySlug(ctx context.Context, slug string) (*models.Event, error) {
	for i := range s.events {
		if s.events[i].Slug == slug {
			ev := s.events[i]
			return &ev, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) GetEventBySourceTx(ctx context.Context, tx *gorm.DB, sourceName, sourceID string) (*models.Event, error) {
	for i := range s.events {
		if s.events[i].SourceName == sourceName && s.events[i].SourceID == sourceID {
			ev := s.events[i]
			return &ev, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) ListEventsByStartDateTx(ctx context.Context, tx *gorm.DB, start time.Time) ([]models.Event, error) {
	var out []models.Event
	for _, ev := range s.events {
		if ev.StartDate.Equal(start) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (s *stubRepo) ListEventsByIDs(ctx context.Context, ids []uint64) ([]models.Event, error) {
	var out []models.Event
	for _, ev := range s.events {
		for _, id := range ids {
			if ev.ID == id {
				out = append(out, ev)
				break
			}
		}
	}
	return out, nil
}

func (s *stubRepo) CreateEventTx(ctx context.Context, tx *gorm.DB, item *models.Event) error {
	s.nextEventID++
	item.ID = s.nextEventID
	s.events = append(s.events, *item)
	return nil
}

func (s *stubRepo) SaveEventTx(ctx context.Context, tx *gorm.DB, item *models.Event) error {
	for i := range s.events {
		if s.events[i].ID == item.ID {
			s.events[i] = *item
			return nil
		}
	}
	s.events = append(s.events, *item)
	return nil
}

func (s *stubRepo) ListEvents(ctx context.Context, params repository.ListEventsParams) ([]models.Event, error) {
	return s.events, nil
}

func (s *stubRepo) CountEvents(ctx context.Context, params repository.ListEventsParams) (int64, error) {
	return int64(len(s.events)), nil
}

func (s *stubRepo) GetOrCreateCategoryTx(ctx context.Context, tx *gorm.DB, name string) (*models.Category, error) {
	if cat, ok := s.categories[name]; ok {
		return &cat, nil
	}
	s.nextCategoryID++
	cat := models.Category{ID: s.nextCategoryID, Name: name, Slug: models.Slugify(name)}
	s.categories[name] = cat
	return &cat, nil
}

func (s *stubRepo) ReplaceEventCategoriesTx(ctx context.Context, tx *gorm.DB, event *models.Event, categories []models.Category) error {
	for i := range s.events {
		if s.events[i].ID == event.ID {
			s.events[i].Categories = categories
		}
	}
	return nil
}

func (s *stubRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	for _, cat := range s.categories {
		out = append(out, cat)
	}
	return out, nil
}

func (s *stubRepo) InsertAvailabilityTx(ctx context.Context, tx *gorm.DB, item *models.AvailabilityHistory) error {
	s.history = append(s.history, *item)
	return nil
}

func (s *stubRepo) ListAvailabilityByEventID(ctx context.Context, eventID uint64, limit int) ([]models.AvailabilityHistory, error) {
	var out []models.AvailabilityHistory
	for _, row := range s.history {
		if row.EventID == eventID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *stubRepo) ListTransitionsSince(ctx context.Context, since time.Time, statuses []models.EventStatus) ([]models.AvailabilityHistory, error) {
	var out []models.AvailabilityHistory
	for _, row := range s.history {
		if row.RecordedAt.Before(since) {
			continue
		}
		if len(statuses) > 0 {
			keep := false
			for _, st := range statuses {
				if row.NewStatus == st {
					keep = true
					break
				}
			}
			if !keep {
				continue
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *stubRepo) GetProviderHealth(ctx context.Context, name string) (*models.ProviderHealth, error) {
	if h, ok := s.health[name]; ok {
		return &h, nil
	}
	return nil, nil
}

func (s *stubRepo) UpsertProviderHealth(ctx context.Context, item *models.ProviderHealth) error {
	s.health[item.Name] = *item
	return nil
}

func (s *stubRepo) ListProviderHealth(ctx context.Context) ([]models.ProviderHealth, error) {
	var out []models.ProviderHealth
	for _, h := range s.health {
		out = append(out, h)
	}
	return out, nil
}

func (s *stubRepo) InsertAlert(ctx context.Context, item *models.Alert) error {
	s.alerts = append(s.alerts, *item)
	return nil
}

func (s *stubRepo) ListAlerts(ctx context.Context, params repository.ListAlertsParams) ([]models.Alert, error) {
	return s.alerts, nil
}
