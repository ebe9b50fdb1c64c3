package payment

import "errors"

var (
	// ErrPaymentNotFound indicates no payment record matches the lookup.
	ErrPaymentNotFound = errors.New("payment not found")
)
