package invitelink

import "context"

// Repository defines the persistence port for invite links.
type Repository interface {
	// Create persists a new invite link record.
	Create(ctx context.Context, l *InviteLink) error

	// Update persists mutations to an existing link.
	Update(ctx context.Context, l *InviteLink) error

	// FindActiveByUserID returns the user's unrevoked links.
	FindActiveByUserID(ctx context.Context, userID int64) ([]*InviteLink, error)
}
