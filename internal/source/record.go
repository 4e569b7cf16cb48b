package source

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is the normalized shape every adapter must produce.
// It is transient: the ingestion orchestrator merges it into the
// persistent Event model.
type Record struct {
	Title       string
	Description *string

	StartDate *time.Time
	EndDate   *time.Time

	VenueName    *string
	VenueAddress *string
	Latitude     *float64
	Longitude    *float64

	TicketURL *string
	PriceMin  *decimal.Decimal
	PriceMax  *decimal.Decimal
	Currency  string

	OnSaleDate *time.Time
	SaleStatus SaleStatus

	TicketsAvailable *int
	TotalTickets     *int

	ImageURL *string
	Images   []string

	Categories []string

	// Provenance: the (SourceName, SourceID) pair uniquely identifies
	// the record's origin and keys the canonical Event row.
	SourceName string
	SourceID   string
	SourceURL  *string

	RawData map[string]any
}

// Validate reports whether a record carries the minimum required
// fields: title, start date, and provenance.
func Validate(rec Record) bool {
	if rec.Title == "" || rec.StartDate == nil {
		return false
	}
	return rec.SourceName != "" && rec.SourceID != ""
}
