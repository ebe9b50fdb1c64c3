package promo

import "context"

// Repository defines the persistence port for the singleton promotional
// window.
type Repository interface {
	// Get returns the stored window, or ErrWindowNotFound when none was
	// ever persisted.
	Get(ctx context.Context) (*Window, error)

	// Save creates or replaces the stored window.
	Save(ctx context.Context, w *Window) error
}
