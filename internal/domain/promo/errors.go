package promo

import "errors"

var (
	// ErrWindowNotFound indicates no promotional window was ever persisted.
	ErrWindowNotFound = errors.New("promo window not found")
)
