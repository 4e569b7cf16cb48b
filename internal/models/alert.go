package models

import (
	"time"

	"gorm.io/datatypes"
)

// Alert is the persisted output of one monitor firing.
type Alert struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Reference string `gorm:"type:varchar(36);uniqueIndex;not null"`

	SellingFastCount int `gorm:"not null"`
	SoldOutCount     int `gorm:"not null"`

	EventIDs   datatypes.JSON `gorm:"type:jsonb"`
	Body       string         `gorm:"type:text;not null"`
	OutputPath *string        `gorm:"type:varchar(1000)"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
}

func (Alert) TableName() string {
	return "sellout_alerts"
}
