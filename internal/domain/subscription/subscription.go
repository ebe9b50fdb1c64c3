package subscription

import (
	"fmt"
	"time"
)

// DefaultMaxRenewalAttempts is the policy ceiling for consecutive failed
// automatic renewal attempts before auto-renewal is force disabled.
const DefaultMaxRenewalAttempts = 3

// Subscription represents the per-user subscription aggregate. At most one
// record exists per user; every activation overwrites the access window.
type Subscription struct {
	userID                int64
	startsAt              time.Time
	expiresAt             time.Time
	autoRenewalEnabled    bool
	savedInstrumentRef    *string
	autoRenewalAttempts   int
	lastRenewalAttemptAt  *time.Time
	expiredNotified       bool
	createdAt             time.Time
	updatedAt             time.Time
}

// NewSubscription creates an activated subscription for the given window.
func NewSubscription(userID int64, now time.Time, duration time.Duration) (*Subscription, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if duration <= 0 {
		return nil, fmt.Errorf("duration must be positive")
	}

	s := &Subscription{
		userID:    userID,
		createdAt: now,
		updatedAt: now,
	}
	s.Activate(now, duration)
	return s, nil
}

// SubscriptionReconstructParams carries persisted state back into the aggregate.
type SubscriptionReconstructParams struct {
	UserID               int64
	StartsAt             time.Time
	ExpiresAt            time.Time
	AutoRenewalEnabled   bool
	SavedInstrumentRef   *string
	AutoRenewalAttempts  int
	LastRenewalAttemptAt *time.Time
	ExpiredNotified      bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ReconstructSubscription reconstructs a subscription from persistence
func ReconstructSubscription(p SubscriptionReconstructParams) (*Subscription, error) {
	if p.UserID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if p.ExpiresAt.Before(p.StartsAt) {
		return nil, fmt.Errorf("expires_at must not precede starts_at")
	}

	return &Subscription{
		userID:               p.UserID,
		startsAt:             p.StartsAt,
		expiresAt:            p.ExpiresAt,
		autoRenewalEnabled:   p.AutoRenewalEnabled,
		savedInstrumentRef:   p.SavedInstrumentRef,
		autoRenewalAttempts:  p.AutoRenewalAttempts,
		lastRenewalAttemptAt: p.LastRenewalAttemptAt,
		expiredNotified:      p.ExpiredNotified,
		createdAt:            p.CreatedAt,
		updatedAt:            p.UpdatedAt,
	}, nil
}

func (s *Subscription) UserID() int64 {
	return s.userID
}

func (s *Subscription) StartsAt() time.Time {
	return s.startsAt
}

func (s *Subscription) ExpiresAt() time.Time {
	return s.expiresAt
}

func (s *Subscription) AutoRenewalEnabled() bool {
	return s.autoRenewalEnabled
}

func (s *Subscription) SavedInstrumentRef() *string {
	return s.savedInstrumentRef
}

func (s *Subscription) AutoRenewalAttempts() int {
	return s.autoRenewalAttempts
}

func (s *Subscription) LastRenewalAttemptAt() *time.Time {
	return s.lastRenewalAttemptAt
}

func (s *Subscription) ExpiredNotified() bool {
	return s.expiredNotified
}

func (s *Subscription) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Subscription) UpdatedAt() time.Time {
	return s.updatedAt
}

// Activate sets the access window from a verified successful payment.
// The window always resets from "now"; remaining time never stacks.
// Failed-attempt counters and the expiry-notice flag reset with it, keeping
// every other field consistent with the new expires_at.
func (s *Subscription) Activate(now time.Time, duration time.Duration) {
	s.startsAt = now
	s.expiresAt = now.Add(duration)
	s.autoRenewalAttempts = 0
	s.expiredNotified = false
	s.updatedAt = now
}

// EnableAutoRenewal stores the reusable instrument reference and turns
// automatic renewal on.
func (s *Subscription) EnableAutoRenewal(instrumentRef string, now time.Time) error {
	if instrumentRef == "" {
		return fmt.Errorf("instrument reference is required")
	}
	s.autoRenewalEnabled = true
	s.savedInstrumentRef = &instrumentRef
	s.updatedAt = now
	return nil
}

// DisableAutoRenewal turns automatic renewal off and clears the stored
// instrument reference.
func (s *Subscription) DisableAutoRenewal(now time.Time) {
	s.autoRenewalEnabled = false
	s.savedInstrumentRef = nil
	s.updatedAt = now
}

// RecordRenewalFailure increments the consecutive-failure counter and
// stamps the attempt time.
func (s *Subscription) RecordRenewalFailure(now time.Time) {
	s.autoRenewalAttempts++
	s.lastRenewalAttemptAt = &now
	s.updatedAt = now
}

// MarkRenewalAttempt stamps the attempt time without counting a failure.
func (s *Subscription) MarkRenewalAttempt(now time.Time) {
	s.lastRenewalAttemptAt = &now
	s.updatedAt = now
}

// MarkExpiredNotified records that the one-time expiry notice was sent for
// the current expiry episode.
func (s *Subscription) MarkExpiredNotified(now time.Time) {
	s.expiredNotified = true
	s.updatedAt = now
}

// RevokeAccess closes the window immediately, used when a refund undoes a
// paid period. Auto-renewal is switched off and the expiry notice is
// suppressed since the revocation carries its own message.
func (s *Subscription) RevokeAccess(now time.Time) {
	s.expiresAt = now
	s.autoRenewalEnabled = false
	s.savedInstrumentRef = nil
	s.expiredNotified = true
	s.updatedAt = now
}

// IsActiveAt reports whether the access window covers the given instant.
// expires_at is the sole source of truth for access.
func (s *Subscription) IsActiveAt(now time.Time) bool {
	return s.expiresAt.After(now)
}

// RemainingAt returns the time left in the access window, or zero.
func (s *Subscription) RemainingAt(now time.Time) time.Duration {
	if !s.IsActiveAt(now) {
		return 0
	}
	return s.expiresAt.Sub(now)
}

// CanAttemptRenewal reports whether an automatic charge may be attempted:
// renewal must be enabled with a stored instrument, the failure ceiling not
// reached, and the throttle interval elapsed since the previous attempt.
func (s *Subscription) CanAttemptRenewal(now time.Time, maxAttempts int, retryInterval time.Duration) bool {
	if !s.autoRenewalEnabled || s.savedInstrumentRef == nil {
		return false
	}
	if s.autoRenewalAttempts >= maxAttempts {
		return false
	}
	if s.lastRenewalAttemptAt != nil && now.Sub(*s.lastRenewalAttemptAt) < retryInterval {
		return false
	}
	return true
}
