package payment

import (
	"context"
	"time"
)

// Repository defines the persistence port for payments.
type Repository interface {
	// Create persists a new payment record.
	Create(ctx context.Context, p *Payment) error

	// Update persists mutations to an existing payment.
	Update(ctx context.Context, p *Payment) error

	// GetByProviderID returns the payment keyed by the gateway payment ID,
	// or ErrPaymentNotFound.
	GetByProviderID(ctx context.Context, providerID string) (*Payment, error)

	// FindStalePending returns pending payments created at or before the
	// given cutoff, oldest first.
	FindStalePending(ctx context.Context, cutoff time.Time, limit int) ([]*Payment, error)
}
