package models

import (
	"time"

	"gorm.io/datatypes"
)

type PaymentModel struct {
	ID              uint    `gorm:"primaryKey"`
	ProviderID      string  `gorm:"uniqueIndex;size:128"`
	UserID          int64   `gorm:"index;not null"`
	Amount          int64   `gorm:"not null"`
	Currency        string  `gorm:"size:10;not null;default:'RUB'"`
	Purpose         string  `gorm:"size:20;not null"`
	Status          string  `gorm:"size:20;not null;index"`
	ConfirmationURL *string `gorm:"type:text"`
	InstrumentRef   *string `gorm:"size:128"`
	PaidAt          *time.Time
	CanceledAt      *time.Time
	Metadata        datatypes.JSONMap `gorm:"type:json"`
	CreatedAt       time.Time         `gorm:"index"`
	UpdatedAt       time.Time
}

func (PaymentModel) TableName() string {
	return "payments"
}
