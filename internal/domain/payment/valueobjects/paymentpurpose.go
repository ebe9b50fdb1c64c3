package valueobjects

// PaymentPurpose distinguishes user-initiated checkout payments from
// background automatic renewal charges.
type PaymentPurpose string

const (
	PaymentPurposeCheckout    PaymentPurpose = "checkout"
	PaymentPurposeAutoRenewal PaymentPurpose = "auto_renewal"
)

func (p PaymentPurpose) IsValid() bool {
	switch p {
	case PaymentPurposeCheckout, PaymentPurposeAutoRenewal:
		return true
	default:
		return false
	}
}

func (p PaymentPurpose) IsAutoRenewal() bool {
	return p == PaymentPurposeAutoRenewal
}

func (p PaymentPurpose) String() string {
	return string(p)
}
