package models

import "time"

// AvailabilityHistory records one status transition for an event.
// Rows are append-only and written only on an actual status change.
type AvailabilityHistory struct {
	ID      uint64 `gorm:"primaryKey;autoIncrement"`
	EventID uint64 `gorm:"not null;index"`

	PreviousStatus *EventStatus `gorm:"type:varchar(20)"`
	NewStatus      EventStatus  `gorm:"type:varchar(20);not null"`

	TicketsAvailable       *int
	TotalTickets           *int
	AvailabilityPercentage *float64 `gorm:"type:numeric"`

	RecordedAt time.Time `gorm:"type:timestamptz;not null;index"`
}

func (AvailabilityHistory) TableName() string {
	return "availability_history"
}
