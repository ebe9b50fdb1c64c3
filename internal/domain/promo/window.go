package promo

import (
	"fmt"
	"time"
)

// Window is the singleton promotional pricing window. While the window is
// open every new purchase is charged the promotional plan; once it closes
// the standard plan applies. Automatic renewals never use the promo plan.
type Window struct {
	endsAt    time.Time
	updatedAt time.Time
}

func NewWindow(endsAt, now time.Time) (*Window, error) {
	if endsAt.IsZero() {
		return nil, fmt.Errorf("window end is required")
	}
	return &Window{
		endsAt:    endsAt,
		updatedAt: now,
	}, nil
}

// ReconstructWindow reconstructs the window from persistence
func ReconstructWindow(endsAt, updatedAt time.Time) *Window {
	return &Window{
		endsAt:    endsAt,
		updatedAt: updatedAt,
	}
}

func (w *Window) EndsAt() time.Time {
	return w.endsAt
}

func (w *Window) UpdatedAt() time.Time {
	return w.updatedAt
}

// OpenAt reports whether the promotional window covers the given instant.
func (w *Window) OpenAt(now time.Time) bool {
	return w.endsAt.After(now)
}

// ResetFrom reopens the window for the given duration starting now.
func (w *Window) ResetFrom(now time.Time, duration time.Duration) error {
	if duration <= 0 {
		return fmt.Errorf("duration must be positive")
	}
	w.endsAt = now.Add(duration)
	w.updatedAt = now
	return nil
}
