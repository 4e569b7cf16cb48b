// Package classify derives an event's availability status from the
// signals providers expose: ticket counts, sale state, and the sales
// rate observed between checks.
package classify

import (
	"fmt"
	"time"

	"eventradar/internal/config"
	"eventradar/internal/models"
	"eventradar/internal/source"
)

// Signals carries everything one classification decision may consume.
// All fields are optional except Now; missing signals skip their rule.
type Signals struct {
	TicketsAvailable *int
	TotalTickets     *int
	SaleStatus       source.SaleStatus

	// Rate inputs: the previous observed count and when it was taken.
	PreviousAvailability *int
	LastCheck            *time.Time
	EventDate            *time.Time

	Now time.Time
}

type Classifier struct {
	// SelloutThresholdPct marks SELLING_FAST at or below this
	// percentage of tickets remaining.
	SelloutThresholdPct float64
	// LowAvailabilityThreshold marks SELLING_FAST at or below this
	// absolute ticket count.
	LowAvailabilityThreshold int
}

func New(cfg config.DetectorConfig) *Classifier {
	return &Classifier{
		SelloutThresholdPct:      cfg.SelloutThresholdPct,
		LowAvailabilityThreshold: cfg.LowAvailabilityThreshold,
	}
}

// Determine applies the status rules in precedence order. Earlier
// rules win; absent signals fall through.
func (c *Classifier) Determine(sig Signals) models.EventStatus {
	if (sig.TicketsAvailable != nil && *sig.TicketsAvailable == 0) ||
		sig.SaleStatus == source.SaleStatusSoldOut {
		return models.StatusSoldOut
	}

	if sig.SaleStatus == source.SaleStatusCancelled {
		return models.StatusCancelled
	}

	if sig.TicketsAvailable != nil && sig.TotalTickets != nil && *sig.TotalTickets > 0 {
		pct := float64(*sig.TicketsAvailable) / float64(*sig.TotalTickets) * 100
		if pct <= c.SelloutThresholdPct {
			return models.StatusSellingFast
		}
		if *sig.TicketsAvailable <= c.LowAvailabilityThreshold {
			return models.StatusSellingFast
		}
	}

	if sig.PreviousAvailability != nil && sig.TicketsAvailable != nil &&
		sig.LastCheck != nil && sig.EventDate != nil {
		if sellingFastByRate(
			*sig.TicketsAvailable,
			*sig.PreviousAvailability,
			sig.Now.Sub(*sig.LastCheck),
			sig.EventDate.Sub(sig.Now),
		) {
			return models.StatusSellingFast
		}
	}

	switch sig.SaleStatus {
	case source.SaleStatusOnSale, source.SaleStatusPresale:
		return models.StatusOnSale
	case source.SaleStatusOffSale:
		return models.StatusUpcoming
	}

	return models.StatusUpcoming
}

// sellingFastByRate projects the sell-out date from the observed sales
// rate. Fast means projected sell-out within 7 days, or within half
// the time remaining before the event.
func sellingFastByRate(current, previous int, sinceCheck, untilEvent time.Duration) bool {
	if sinceCheck <= 0 {
		return false
	}
	daysSinceCheck := sinceCheck.Hours() / 24
	ticketsPerDay := float64(previous-current) / daysSinceCheck

	daysUntilEvent := untilEvent.Hours() / 24
	if daysUntilEvent <= 0 {
		return false
	}

	if ticketsPerDay > 0 {
		daysToSellout := float64(current) / ticketsPerDay
		if daysToSellout <= 7 {
			return true
		}
		if daysToSellout < daysUntilEvent*0.5 {
			return true
		}
	}
	return false
}

// SelloutProbability estimates the chance the event sells out, in
// [0,1]. Base is the sold fraction, scaled up as the event nears and
// by whether the current sales rate outpaces the time remaining.
// ticketsPerDay may be nil when no rate is known.
func (c *Classifier) SelloutProbability(ticketsAvailable, totalTickets int, daysUntilEvent float64, ticketsPerDay *float64) float64 {
	if totalTickets == 0 {
		return 0.0
	}
	availabilityPct := float64(ticketsAvailable) / float64(totalTickets) * 100
	probability := 1.0 - availabilityPct/100

	switch {
	case daysUntilEvent <= 0:
		return 0.0
	case daysUntilEvent <= 7:
		probability *= 1.3
	case daysUntilEvent <= 30:
		probability *= 1.1
	default:
		probability *= 0.9
	}

	if ticketsPerDay != nil && *ticketsPerDay > 0 {
		daysToSellout := float64(ticketsAvailable) / *ticketsPerDay
		if daysToSellout < daysUntilEvent {
			probability *= 1.2
		} else {
			probability *= 0.8
		}
	}

	if probability > 1.0 {
		return 1.0
	}
	if probability < 0.0 {
		return 0.0
	}
	return probability
}

// UrgencyMessage renders the user-facing urgency line for a status.
// UPCOMING has no message.
func UrgencyMessage(status models.EventStatus, ticketsAvailable *int, availabilityPct *float64) string {
	switch status {
	case models.StatusSoldOut:
		return "SOLD OUT"
	case models.StatusSellingFast:
		switch {
		case ticketsAvailable != nil && *ticketsAvailable > 0 && *ticketsAvailable <= 10:
			return fmt.Sprintf("Only %d tickets left!", *ticketsAvailable)
		case availabilityPct != nil && *availabilityPct > 0 && *availabilityPct <= 5:
			return "Less than 5% of tickets remaining!"
		case availabilityPct != nil && *availabilityPct > 0 && *availabilityPct <= 10:
			return "Selling fast - less than 10% remaining!"
		default:
			return "Selling fast - book soon!"
		}
	case models.StatusOnSale:
		return "On sale now"
	case models.StatusCancelled:
		return "Cancelled"
	}
	return ""
}

// ShouldHighlight reports whether a status warrants prominence in
// rendered digests.
func ShouldHighlight(status models.EventStatus) bool {
	return status == models.StatusSellingFast || status == models.StatusOnSale
}
