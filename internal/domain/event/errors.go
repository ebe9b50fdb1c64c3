package event

import "errors"

var (
	// ErrEventAlreadyProcessed indicates the ledger already holds this entry.
	ErrEventAlreadyProcessed = errors.New("event already processed")
)
