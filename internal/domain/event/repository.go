package event

import "context"

// Repository defines the persistence port for the idempotency ledger.
type Repository interface {
	// Record persists a ledger entry, returning ErrEventAlreadyProcessed
	// when the ledger ID was recorded before.
	Record(ctx context.Context, e *ProcessedEvent) error

	// Has reports whether the ledger ID was recorded before.
	Has(ctx context.Context, ledgerID string) (bool, error)
}
