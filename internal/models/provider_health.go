package models

import "time"

// ProviderHealth tracks per-adapter fetch outcomes, one row per provider.
// Upserted once per adapter per ingestion cycle.
type ProviderHealth struct {
	Name       string `gorm:"primaryKey;type:varchar(100)"`
	SourceType string `gorm:"type:varchar(50);not null"`
	Enabled    bool   `gorm:"not null;default:true"`

	LastAttemptAt *time.Time `gorm:"type:timestamptz"`
	LastSuccessAt *time.Time `gorm:"type:timestamptz"`
	LastError     *string    `gorm:"type:text"`

	EventsFetched int64   `gorm:"not null;default:0"`
	AttemptCount  int64   `gorm:"not null;default:0"`
	SuccessCount  int64   `gorm:"not null;default:0"`
	SuccessRate   float64 `gorm:"not null;default:1"`
	// Two-point mean of the previous average and the newest sample,
	// in seconds.
	AvgFetchSeconds *float64 `gorm:"type:numeric"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (ProviderHealth) TableName() string {
	return "provider_health"
}
