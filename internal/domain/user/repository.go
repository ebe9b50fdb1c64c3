package user

import "context"

// UserRepository defines the persistence interface for users
type UserRepository interface {
	// Upsert creates the user on first interaction or refreshes the handle.
	Upsert(ctx context.Context, u *User) error

	GetByTelegramID(ctx context.Context, telegramID int64) (*User, error)

	// Delete removes a user outright (administrative purge only).
	Delete(ctx context.Context, telegramID int64) error
}
