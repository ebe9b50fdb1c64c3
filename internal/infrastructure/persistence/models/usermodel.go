package models

import "time"

type UserModel struct {
	TelegramID int64  `gorm:"primaryKey;autoIncrement:false"`
	Handle     string `gorm:"size:64"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (UserModel) TableName() string {
	return "users"
}
