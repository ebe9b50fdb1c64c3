package yookassa

import (
	"encoding/json"
	"errors"
	"fmt"

	apppayment "github.com/clubgate/clubgate/internal/application/payment"
)

// ErrUnsupportedEvent marks a well-formed notification for an event type
// the engine does not handle. The webhook acknowledges these.
var ErrUnsupportedEvent = errors.New("unsupported event type")

type notificationEnvelope struct {
	Type   string          `json:"type"`
	Event  string          `json:"event"`
	Object json.RawMessage `json:"object"`
}

// Notification is one parsed webhook delivery.
type Notification struct {
	Event    string
	ObjectID string
	Payment  *apppayment.ChargeInfo
	Refund   *apppayment.RefundInfo
}

// ParseNotification decodes a webhook body into a normalized notification.
// Unknown event types return an error so the handler can acknowledge and
// skip them.
func ParseNotification(data []byte) (*Notification, error) {
	var env notificationEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode notification: %w", err)
	}
	if env.Type != "notification" {
		return nil, fmt.Errorf("unexpected notification type: %q", env.Type)
	}

	switch env.Event {
	case EventPaymentSucceeded, EventPaymentCanceled:
		var obj paymentObject
		if err := json.Unmarshal(env.Object, &obj); err != nil {
			return nil, fmt.Errorf("failed to decode payment object: %w", err)
		}
		if obj.ID == "" {
			return nil, fmt.Errorf("notification payment object has no ID")
		}
		return &Notification{
			Event:    env.Event,
			ObjectID: obj.ID,
			Payment:  normalizePayment(&obj),
		}, nil

	case EventRefundSucceeded:
		var obj refundObject
		if err := json.Unmarshal(env.Object, &obj); err != nil {
			return nil, fmt.Errorf("failed to decode refund object: %w", err)
		}
		if obj.ID == "" {
			return nil, fmt.Errorf("notification refund object has no ID")
		}
		return &Notification{
			Event:    env.Event,
			ObjectID: obj.ID,
			Refund: &apppayment.RefundInfo{
				ProviderID:    obj.ID,
				PaymentID:     obj.PaymentID,
				Status:        obj.Status,
				AmountKopecks: parseAmount(obj.Amount.Value),
				Currency:      obj.Amount.Currency,
			},
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEvent, env.Event)
	}
}
