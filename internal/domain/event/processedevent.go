package event

import (
	"fmt"
	"time"
)

// ProcessedEvent is one entry in the webhook idempotency ledger. The ledger
// ID combines the notification type and the object ID so a replayed
// notification is recognized regardless of delivery attempt.
type ProcessedEvent struct {
	ledgerID    string
	eventType   string
	processedAt time.Time
}

// ComposeLedgerID builds the ledger key for a notification.
func ComposeLedgerID(eventType, objectID string) string {
	return eventType + ":" + objectID
}

func NewProcessedEvent(eventType, objectID string, now time.Time) (*ProcessedEvent, error) {
	if eventType == "" {
		return nil, fmt.Errorf("event type is required")
	}
	if objectID == "" {
		return nil, fmt.Errorf("object ID is required")
	}
	return &ProcessedEvent{
		ledgerID:    ComposeLedgerID(eventType, objectID),
		eventType:   eventType,
		processedAt: now,
	}, nil
}

// ReconstructProcessedEvent reconstructs a ledger entry from persistence
func ReconstructProcessedEvent(ledgerID, eventType string, processedAt time.Time) *ProcessedEvent {
	return &ProcessedEvent{
		ledgerID:    ledgerID,
		eventType:   eventType,
		processedAt: processedAt,
	}
}

func (e *ProcessedEvent) LedgerID() string {
	return e.ledgerID
}

func (e *ProcessedEvent) EventType() string {
	return e.eventType
}

func (e *ProcessedEvent) ProcessedAt() time.Time {
	return e.processedAt
}
