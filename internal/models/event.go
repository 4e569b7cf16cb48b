package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Event is the canonical, deduplicated representation of a listing.
// At most one row exists per (source_name, source_id); re-ingestion
// updates in place and the pipeline never deletes rows.
type Event struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"`

	Title       string  `gorm:"type:varchar(500);not null"`
	Slug        string  `gorm:"type:varchar(500);index"`
	Description *string `gorm:"type:text"`

	StartDate time.Time  `gorm:"type:timestamptz;not null;index"`
	EndDate   *time.Time `gorm:"type:timestamptz"`

	VenueName    *string  `gorm:"type:varchar(255)"`
	VenueAddress *string  `gorm:"type:text"`
	Latitude     *float64 `gorm:"type:numeric"`
	Longitude    *float64 `gorm:"type:numeric"`

	TicketURL *string          `gorm:"type:varchar(1000)"`
	PriceMin  *decimal.Decimal `gorm:"type:numeric(12,2)"`
	PriceMax  *decimal.Decimal `gorm:"type:numeric(12,2)"`
	Currency  string           `gorm:"type:varchar(3);not null;default:GBP"`

	OnSaleDate *time.Time `gorm:"type:timestamptz;index"`
	// Normalized sale-status token from the adapter boundary
	// (see source.SaleStatus); never a raw provider spelling.
	OnSaleStatus *string `gorm:"type:varchar(50)"`

	Status                 EventStatus  `gorm:"type:varchar(20);not null;default:upcoming;index"`
	PreviousStatus         *EventStatus `gorm:"type:varchar(20)"`
	TicketsAvailable       *int
	TotalTickets           *int
	AvailabilityPercentage *float64   `gorm:"type:numeric"`
	LastAvailabilityCheck  *time.Time `gorm:"type:timestamptz"`

	SourceName string         `gorm:"type:varchar(100);not null;index;uniqueIndex:idx_events_provenance"`
	SourceID   string         `gorm:"type:varchar(255);not null;uniqueIndex:idx_events_provenance"`
	SourceURL  *string        `gorm:"type:varchar(1000)"`
	RawData    datatypes.JSON `gorm:"type:jsonb"`

	ImageURL *string        `gorm:"type:varchar(1000)"`
	Images   datatypes.JSON `gorm:"type:jsonb"`

	IsFeatured      bool    `gorm:"not null;default:false"`
	PopularityScore float64 `gorm:"not null;default:0"`

	FirstSeenAt time.Time `gorm:"type:timestamptz;not null;index"`
	CreatedAt   time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
	UpdatedAt   time.Time `gorm:"type:timestamptz;autoUpdateTime"`

	Categories []Category `gorm:"many2many:event_categories"`
}

func (Event) TableName() string {
	return "events"
}
