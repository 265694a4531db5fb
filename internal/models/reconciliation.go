package models

import "time"

// Reconciliation is the outcome of checking one draw against the guess set.
type Reconciliation struct {
	RunID        string
	DrawID       string
	Hits         Hits
	MoneyWon     int64
	LedgerBefore int64
	LedgerAfter  int64
	ReconciledAt time.Time
}
