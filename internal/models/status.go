package models

// EventStatus is the classified urgency state of an event's ticket sales.
type EventStatus string

const (
	StatusUpcoming    EventStatus = "upcoming"
	StatusOnSale      EventStatus = "on_sale"
	StatusSellingFast EventStatus = "selling_fast"
	StatusSoldOut     EventStatus = "sold_out"
	StatusCancelled   EventStatus = "cancelled"
)

func (s EventStatus) Valid() bool {
	switch s {
	case StatusUpcoming, StatusOnSale, StatusSellingFast, StatusSoldOut, StatusCancelled:
		return true
	}
	return false
}
