package telegram

import (
	"errors"
	"fmt"
	"time"
)

// APIError represents a structured Telegram Bot API error response.
type APIError struct {
	ErrorCode     int    // HTTP-level error code from Telegram (e.g., 400, 403, 429)
	Description   string // Human-readable error description
	RetryAfterSec int    // Seconds to wait before retrying (only for 429)
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.RetryAfterSec > 0 {
		return fmt.Sprintf("telegram API error %d: %s (retry_after=%ds)", e.ErrorCode, e.Description, e.RetryAfterSec)
	}
	return fmt.Sprintf("telegram API error %d: %s", e.ErrorCode, e.Description)
}

// RetryAfter exposes the 429 hint as a duration.
func (e *APIError) RetryAfter() time.Duration {
	return time.Duration(e.RetryAfterSec) * time.Second
}

// IsBotBlocked returns true if the error indicates the bot was blocked by the user (403).
func IsBotBlocked(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode == 403
	}
	return false
}

// IsRetryAfter returns true if the error is a 429 Too Many Requests with retry_after.
func IsRetryAfter(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode == 429 && apiErr.RetryAfterSec > 0
	}
	return false
}

// IsNonRetryable returns true if the error should not be retried (400, 403).
func IsNonRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode == 400 || apiErr.ErrorCode == 403
	}
	return false
}
