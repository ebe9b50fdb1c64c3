package subscription

import "time"

// Status is the derived lifecycle state of a subscription. It is never
// stored; StatusAt computes it from the persisted fields on demand.
type Status string

const (
	// StatusNone means the user has no subscription record.
	StatusNone Status = "no_subscription"
	// StatusActive means the access window covers the current instant.
	StatusActive Status = "active"
	// StatusExpiredPendingRenewal means the window has lapsed but automatic
	// renewal is still eligible to retry.
	StatusExpiredPendingRenewal Status = "expired_pending_renewal"
	// StatusExpiredRenewalExhausted means the window has lapsed and the
	// failure ceiling was reached.
	StatusExpiredRenewalExhausted Status = "expired_renewal_exhausted"
	// StatusExpiredNoRenewal means the window has lapsed with automatic
	// renewal off.
	StatusExpiredNoRenewal Status = "expired_no_renewal"
)

func (s Status) String() string {
	return string(s)
}

// IsExpired reports whether the status is any of the expired variants.
func (s Status) IsExpired() bool {
	switch s {
	case StatusExpiredPendingRenewal, StatusExpiredRenewalExhausted, StatusExpiredNoRenewal:
		return true
	default:
		return false
	}
}

// StatusAt derives the lifecycle state at the given instant. A nil
// subscription maps to StatusNone.
func StatusAt(s *Subscription, now time.Time, maxAttempts int) Status {
	if s == nil {
		return StatusNone
	}
	if s.IsActiveAt(now) {
		return StatusActive
	}
	if !s.autoRenewalEnabled || s.savedInstrumentRef == nil {
		return StatusExpiredNoRenewal
	}
	if s.autoRenewalAttempts >= maxAttempts {
		return StatusExpiredRenewalExhausted
	}
	return StatusExpiredPendingRenewal
}
