package models

import "time"

type ProcessedEventModel struct {
	LedgerID    string `gorm:"primaryKey;size:192"`
	EventType   string `gorm:"size:64;not null"`
	ProcessedAt time.Time
}

func (ProcessedEventModel) TableName() string {
	return "processed_events"
}
