package user

import (
	"fmt"
	"time"
)

// User represents a channel customer identified by their Telegram ID.
// Created on first interaction; only the display handle mutates afterwards.
type User struct {
	telegramID int64
	handle     string
	createdAt  time.Time
	updatedAt  time.Time
}

// NewUser creates a new user
func NewUser(telegramID int64, handle string, now time.Time) (*User, error) {
	if telegramID == 0 {
		return nil, fmt.Errorf("telegram ID is required")
	}

	return &User{
		telegramID: telegramID,
		handle:     handle,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// ReconstructUser reconstructs a user from persistence
func ReconstructUser(telegramID int64, handle string, createdAt, updatedAt time.Time) (*User, error) {
	if telegramID == 0 {
		return nil, fmt.Errorf("telegram ID is required")
	}

	return &User{
		telegramID: telegramID,
		handle:     handle,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}, nil
}

func (u *User) TelegramID() int64 {
	return u.telegramID
}

func (u *User) Handle() string {
	return u.handle
}

func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

func (u *User) UpdatedAt() time.Time {
	return u.updatedAt
}

// UpdateHandle updates the display handle if it changed.
func (u *User) UpdateHandle(handle string, now time.Time) {
	if handle == "" || handle == u.handle {
		return
	}
	u.handle = handle
	u.updatedAt = now
}
