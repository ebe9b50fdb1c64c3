package models

import "time"

// PromoWindowModel is a single-row table; ID is always 1.
type PromoWindowModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement:false"`
	EndsAt    time.Time `gorm:"not null"`
	UpdatedAt time.Time
}

func (PromoWindowModel) TableName() string {
	return "promo_windows"
}
