package payment

import "context"

// Normalized charge statuses. Every provider status maps onto one of these
// before the engine sees it.
const (
	ChargeStatusPending   = "pending"
	ChargeStatusSucceeded = "succeeded"
	ChargeStatusCanceled  = "canceled"
)

// ChargeParams describes a user-initiated checkout charge.
type ChargeParams struct {
	UserID         int64
	AmountKopecks  int64
	Currency       string
	Description    string
	SaveInstrument bool
	ReceiptEmail   string
}

// AutoChargeParams describes a background charge against a saved instrument.
type AutoChargeParams struct {
	UserID        int64
	AmountKopecks int64
	Currency      string
	Description   string
	InstrumentRef string
	ReceiptEmail  string
}

// ChargeInfo is the provider's view of a charge after normalization.
// InstrumentSaved is true only when the provider confirmed the instrument
// was stored AND its type supports unattended reuse.
type ChargeInfo struct {
	ProviderID         string
	Status             string
	Paid               bool
	AmountKopecks      int64
	Currency           string
	ConfirmationURL    string
	InstrumentSaved    bool
	InstrumentRef      string
	CancellationReason string
	UserID             int64
}

// RefundInfo is the provider's view of a refund after normalization.
type RefundInfo struct {
	ProviderID    string
	PaymentID     string
	Status        string
	AmountKopecks int64
	Currency      string
}

// Gateway is the payment provider port.
type Gateway interface {
	// CreateCheckoutCharge creates a redirect-confirmed charge and returns
	// the confirmation URL for the user.
	CreateCheckoutCharge(ctx context.Context, params ChargeParams) (*ChargeInfo, error)

	// CreateAutoCharge charges a saved instrument without user presence.
	CreateAutoCharge(ctx context.Context, params AutoChargeParams) (*ChargeInfo, error)

	// GetCharge re-reads the charge state from the provider. Webhook-driven
	// transitions are verified against this before granting anything.
	GetCharge(ctx context.Context, providerID string) (*ChargeInfo, error)
}
