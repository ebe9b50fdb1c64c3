package models

import "time"

type InviteLinkModel struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    int64  `gorm:"index;not null"`
	URL       string `gorm:"size:256;not null"`
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

func (InviteLinkModel) TableName() string {
	return "invite_links"
}
