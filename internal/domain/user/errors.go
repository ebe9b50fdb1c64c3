package user

import "errors"

// ErrUserNotFound is returned when no user exists for the given Telegram ID.
var ErrUserNotFound = errors.New("user not found")
