package reconcile

import "fmt"

const (
	OpRead  = "read"
	OpWrite = "write"
)

// LedgerError reports a failed ledger read or write. For a failed write,
// Value holds the balance that was computed but not persisted.
type LedgerError struct {
	Op    string
	Key   string
	Value int64
	Err   error
}

func (e *LedgerError) Error() string {
	if e.Op == OpWrite {
		return fmt.Sprintf("ledger %s %s failed, computed balance %d was not persisted: %v", e.Op, e.Key, e.Value, e.Err)
	}
	return fmt.Sprintf("ledger %s %s failed: %v", e.Op, e.Key, e.Err)
}

func (e *LedgerError) Unwrap() error { return e.Err }

// JournalError reports a journal failure. When returned after a successful
// ledger write the balance is durable but the draw is not marked as booked.
type JournalError struct {
	DrawID string
	Err    error
}

func (e *JournalError) Error() string {
	return fmt.Sprintf("journal for draw %s failed: %v", e.DrawID, e.Err)
}

func (e *JournalError) Unwrap() error { return e.Err }
