package payment

import (
	"fmt"
	"time"

	vo "github.com/clubgate/clubgate/internal/domain/payment/valueobjects"
)

// Payment tracks one gateway charge attempt, keyed by the gateway's own
// payment ID once the charge has been created remotely. Status transitions
// are monotone: a final status is never left.
type Payment struct {
	id         uint
	providerID string
	userID     int64
	amount     vo.Money
	purpose    vo.PaymentPurpose
	status     vo.PaymentStatus

	confirmationURL *string
	instrumentRef   *string

	paidAt     *time.Time
	canceledAt *time.Time

	metadata map[string]interface{}

	createdAt time.Time
	updatedAt time.Time
}

func NewPayment(userID int64, amount vo.Money, purpose vo.PaymentPurpose, now time.Time) (*Payment, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive")
	}
	if !purpose.IsValid() {
		return nil, fmt.Errorf("invalid payment purpose: %s", purpose)
	}

	return &Payment{
		userID:    userID,
		amount:    amount,
		purpose:   purpose,
		status:    vo.PaymentStatusPending,
		metadata:  make(map[string]interface{}),
		createdAt: now,
		updatedAt: now,
	}, nil
}

// PaymentReconstructParams carries persisted state back into the aggregate.
type PaymentReconstructParams struct {
	ID              uint
	ProviderID      string
	UserID          int64
	Amount          vo.Money
	Purpose         vo.PaymentPurpose
	Status          vo.PaymentStatus
	ConfirmationURL *string
	InstrumentRef   *string
	PaidAt          *time.Time
	CanceledAt      *time.Time
	Metadata        map[string]interface{}
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ReconstructPayment reconstructs a payment from persistence
func ReconstructPayment(p PaymentReconstructParams) (*Payment, error) {
	if p.UserID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid payment status: %s", p.Status)
	}

	metadata := p.Metadata
	if metadata == nil {
		metadata = make(map[string]interface{})
	}

	return &Payment{
		id:              p.ID,
		providerID:      p.ProviderID,
		userID:          p.UserID,
		amount:          p.Amount,
		purpose:         p.Purpose,
		status:          p.Status,
		confirmationURL: p.ConfirmationURL,
		instrumentRef:   p.InstrumentRef,
		paidAt:          p.PaidAt,
		canceledAt:      p.CanceledAt,
		metadata:        metadata,
		createdAt:       p.CreatedAt,
		updatedAt:       p.UpdatedAt,
	}, nil
}

// AttachProviderInfo records the gateway-assigned ID and the checkout URL
// returned when the charge was created remotely.
func (p *Payment) AttachProviderInfo(providerID, confirmationURL string, now time.Time) error {
	if providerID == "" {
		return fmt.Errorf("provider payment ID is required")
	}
	p.providerID = providerID
	if confirmationURL != "" {
		p.confirmationURL = &confirmationURL
	}
	p.updatedAt = now
	return nil
}

// MarkAsSucceeded finalizes the payment. A second call is a no-op so
// replayed notifications stay harmless.
func (p *Payment) MarkAsSucceeded(now time.Time) error {
	if p.status == vo.PaymentStatusSucceeded {
		return nil
	}
	if p.status != vo.PaymentStatusPending {
		return fmt.Errorf("cannot mark payment as succeeded with status %s", p.status)
	}

	p.status = vo.PaymentStatusSucceeded
	p.paidAt = &now
	p.updatedAt = now
	return nil
}

// MarkAsCanceled finalizes the payment as canceled.
func (p *Payment) MarkAsCanceled(reason string, now time.Time) error {
	if p.status == vo.PaymentStatusCanceled {
		return nil
	}
	if p.status.IsFinal() {
		return fmt.Errorf("cannot mark payment as canceled with final status %s", p.status)
	}

	p.status = vo.PaymentStatusCanceled
	p.canceledAt = &now
	if reason != "" {
		p.metadata["cancellation_reason"] = reason
	}
	p.updatedAt = now
	return nil
}

// MarkAsExpired finalizes a stale pending payment abandoned by the user.
func (p *Payment) MarkAsExpired(now time.Time) error {
	if p.status.IsFinal() {
		return nil
	}

	p.status = vo.PaymentStatusExpired
	p.updatedAt = now
	return nil
}

// SetInstrumentRef stores the reusable instrument reference reported by the
// gateway on a successful charge.
func (p *Payment) SetInstrumentRef(ref string, now time.Time) {
	if ref == "" {
		return
	}
	p.instrumentRef = &ref
	p.updatedAt = now
}

// IsStaleAt reports whether a pending payment has outlived the link TTL.
func (p *Payment) IsStaleAt(now time.Time, ttl time.Duration) bool {
	return p.status.IsPending() && now.Sub(p.createdAt) >= ttl
}

func (p *Payment) ID() uint {
	return p.id
}

// SetID writes back the database-generated ID after insert.
func (p *Payment) SetID(id uint) {
	p.id = id
}

func (p *Payment) ProviderID() string {
	return p.providerID
}

func (p *Payment) UserID() int64 {
	return p.userID
}

func (p *Payment) Amount() vo.Money {
	return p.amount
}

func (p *Payment) Purpose() vo.PaymentPurpose {
	return p.purpose
}

func (p *Payment) Status() vo.PaymentStatus {
	return p.status
}

func (p *Payment) ConfirmationURL() *string {
	return p.confirmationURL
}

func (p *Payment) InstrumentRef() *string {
	return p.instrumentRef
}

func (p *Payment) PaidAt() *time.Time {
	return p.paidAt
}

func (p *Payment) CanceledAt() *time.Time {
	return p.canceledAt
}

func (p *Payment) Metadata() map[string]interface{} {
	return p.metadata
}

func (p *Payment) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Payment) UpdatedAt() time.Time {
	return p.updatedAt
}
