package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"eventradar/internal/models"
)

// Repository is the persistence surface shared by the ingestion
// pipeline, the alert monitor, and the HTTP API.
//
// Tx-suffixed methods run inside a transaction opened with InTx; the
// ingestion pipeline commits one transaction per adapter batch.
type Repository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	// Events
	GetEventByID(ctx context.Context, id uint64) (*models.Event, error)
	GetEventBySlug(ctx context.Context, slug string) (*models.Event, error)
	GetEventBySourceTx(ctx context.Context, tx *gorm.DB, sourceName, sourceID string) (*models.Event, error)
	ListEventsByStartDateTx(ctx context.Context, tx *gorm.DB, start time.Time) ([]models.Event, error)
	ListEventsByIDs(ctx context.Context, ids []uint64) ([]models.Event, error)
	CreateEventTx(ctx context.Context, tx *gorm.DB, item *models.Event) error
	SaveEventTx(ctx context.Context, tx *gorm.DB, item *models.Event) error
	ListEvents(ctx context.Context, params ListEventsParams) ([]models.Event, error)
	CountEvents(ctx context.Context, params ListEventsParams) (int64, error)

	// Categories
	GetOrCreateCategoryTx(ctx context.Context, tx *gorm.DB, name string) (*models.Category, error)
	ReplaceEventCategoriesTx(ctx context.Context, tx *gorm.DB, event *models.Event, categories []models.Category) error
	ListCategories(ctx context.Context) ([]models.Category, error)

	// Availability history
	InsertAvailabilityTx(ctx context.Context, tx *gorm.DB, item *models.AvailabilityHistory) error
	ListAvailabilityByEventID(ctx context.Context, eventID uint64, limit int) ([]models.AvailabilityHistory, error)
	ListTransitionsSince(ctx context.Context, since time.Time, statuses []models.EventStatus) ([]models.AvailabilityHistory, error)

	// Provider health
	GetProviderHealth(ctx context.Context, name string) (*models.ProviderHealth, error)
	UpsertProviderHealth(ctx context.Context, item *models.ProviderHealth) error
	ListProviderHealth(ctx context.Context) ([]models.ProviderHealth, error)

	// Alerts
	InsertAlert(ctx context.Context, item *models.Alert) error
	ListAlerts(ctx context.Context, params ListAlertsParams) ([]models.Alert, error)
}

type ListEventsParams struct {
	Limit    int
	Offset   int
	Status   *models.EventStatus
	Category *string
	Venue    *string
	Search   *string
	From     *time.Time
	To       *time.Time
	Featured *bool
	OrderBy  string
	Asc      *bool
}

type ListAlertsParams struct {
	Limit  int
	Offset int
	Since  *time.Time
}
