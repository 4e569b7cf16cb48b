package models

import "time"

type Category struct {
	ID          uint64  `gorm:"primaryKey;autoIncrement"`
	Name        string  `gorm:"type:varchar(100);uniqueIndex;not null"`
	Slug        string  `gorm:"type:varchar(100);uniqueIndex;not null"`
	Description *string `gorm:"type:text"`
	// Icon class or emoji for newsletter rendering.
	Icon      *string   `gorm:"type:varchar(50)"`
	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (Category) TableName() string {
	return "categories"
}
