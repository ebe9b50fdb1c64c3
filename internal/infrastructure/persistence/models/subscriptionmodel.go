package models

import "time"

type SubscriptionModel struct {
	UserID               int64     `gorm:"primaryKey;autoIncrement:false"`
	StartsAt             time.Time `gorm:"not null"`
	ExpiresAt            time.Time `gorm:"not null;index"`
	AutoRenewalEnabled   bool      `gorm:"not null;default:false"`
	SavedInstrumentRef   *string   `gorm:"size:128"`
	AutoRenewalAttempts  int       `gorm:"not null;default:0"`
	LastRenewalAttemptAt *time.Time
	ExpiredNotified      bool `gorm:"not null;default:false"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (SubscriptionModel) TableName() string {
	return "subscriptions"
}
