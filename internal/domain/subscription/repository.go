package subscription

import (
	"context"
	"time"
)

// Repository defines the persistence port for subscriptions.
type Repository interface {
	// Upsert creates or replaces the subscription keyed by user ID.
	Upsert(ctx context.Context, sub *Subscription) error

	// GetByUserID returns the user's subscription, or ErrSubscriptionNotFound.
	GetByUserID(ctx context.Context, userID int64) (*Subscription, error)

	// FindExpired returns subscriptions whose access window lapsed at or
	// before the given instant.
	FindExpired(ctx context.Context, now time.Time, limit int) ([]*Subscription, error)

	// FindExpiringBetween returns subscriptions whose expires_at falls
	// inside [from, to).
	FindExpiringBetween(ctx context.Context, from, to time.Time) ([]*Subscription, error)

	// Delete removes the user's subscription record.
	Delete(ctx context.Context, userID int64) error
}
