package valueobjects

// CancellationCategory groups the provider's free-form cancellation
// reasons into the handful the engine distinguishes.
type CancellationCategory string

const (
	CancellationInsufficientFunds CancellationCategory = "insufficient_funds"
	CancellationAbandoned         CancellationCategory = "abandoned"
	CancellationOther             CancellationCategory = "other"
)

// ClassifyCancellationReason maps a provider cancellation reason to a
// category. Unknown reasons fall into CancellationOther.
func ClassifyCancellationReason(reason string) CancellationCategory {
	switch reason {
	case "insufficient_funds":
		return CancellationInsufficientFunds
	case "expired_on_confirmation", "expired_on_capture":
		return CancellationAbandoned
	default:
		return CancellationOther
	}
}

func (c CancellationCategory) String() string {
	return string(c)
}
