package subscription

import "errors"

var (
	// ErrSubscriptionNotFound indicates no subscription record exists for the user.
	ErrSubscriptionNotFound = errors.New("subscription not found")
)
