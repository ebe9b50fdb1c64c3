package yookassa

// Provider payment statuses.
const (
	StatusPending           = "pending"
	StatusWaitingForCapture = "waiting_for_capture"
	StatusSucceeded         = "succeeded"
	StatusCanceled          = "canceled"
)

// Notification event types.
const (
	EventPaymentSucceeded = "payment.succeeded"
	EventPaymentCanceled  = "payment.canceled"
	EventRefundSucceeded  = "refund.succeeded"
)

// Reusable payment method type reported by the provider.
const methodTypeBankCard = "bank_card"

type amountObject struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type confirmationObject struct {
	Type            string `json:"type"`
	ReturnURL       string `json:"return_url,omitempty"`
	ConfirmationURL string `json:"confirmation_url,omitempty"`
}

type paymentMethodObject struct {
	Type  string `json:"type"`
	ID    string `json:"id"`
	Saved bool   `json:"saved"`
}

type cancellationDetails struct {
	Party  string `json:"party"`
	Reason string `json:"reason"`
}

type receiptObject struct {
	Customer receiptCustomer `json:"customer"`
	Items    []receiptItem   `json:"items"`
}

type receiptCustomer struct {
	Email string `json:"email"`
}

type receiptItem struct {
	Description string       `json:"description"`
	Quantity    string       `json:"quantity"`
	Amount      amountObject `json:"amount"`
	VATCode     int          `json:"vat_code"`
}

// paymentObject is the provider's wire representation of a payment.
type paymentObject struct {
	ID                  string               `json:"id"`
	Status              string               `json:"status"`
	Paid                bool                 `json:"paid"`
	Amount              amountObject         `json:"amount"`
	Confirmation        *confirmationObject  `json:"confirmation,omitempty"`
	PaymentMethod       *paymentMethodObject `json:"payment_method,omitempty"`
	CancellationDetails *cancellationDetails `json:"cancellation_details,omitempty"`
	Metadata            map[string]string    `json:"metadata,omitempty"`
}

// refundObject is the provider's wire representation of a refund.
type refundObject struct {
	ID        string       `json:"id"`
	Status    string       `json:"status"`
	PaymentID string       `json:"payment_id"`
	Amount    amountObject `json:"amount"`
}

type createPaymentRequest struct {
	Amount            amountObject        `json:"amount"`
	Capture           bool                `json:"capture"`
	Confirmation      *confirmationObject `json:"confirmation,omitempty"`
	PaymentMethodID   string              `json:"payment_method_id,omitempty"`
	SavePaymentMethod bool                `json:"save_payment_method,omitempty"`
	Description       string              `json:"description,omitempty"`
	Receipt           *receiptObject      `json:"receipt,omitempty"`
	Metadata          map[string]string   `json:"metadata,omitempty"`
}

type apiErrorResponse struct {
	Type        string `json:"type"`
	Code        string `json:"code"`
	Description string `json:"description"`
}
