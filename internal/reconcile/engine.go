// Package reconcile checks draws against the guess set and books the result on the ledger.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rewired-gh/jackpotoracle/internal/ledger"
	"github.com/rewired-gh/jackpotoracle/internal/logger"
	"github.com/rewired-gh/jackpotoracle/internal/models"
)

// DefaultStake is the ticket price charged per reconciled draw, in cents.
const DefaultStake int64 = 200

// ErrAlreadyReconciled is returned when the journal already holds the draw.
var ErrAlreadyReconciled = errors.New("draw already reconciled")

// Journal remembers which draws have been booked.
type Journal interface {
	Reconciled(ctx context.Context, drawID string) (bool, error)
	Record(ctx context.Context, rec models.Reconciliation) error
}

// Config names the ledger key and the stake charged per draw.
type Config struct {
	LedgerKey string
	Stake     int64
	RunID     string
}

// Engine owns the ledger key for the duration of a run.
type Engine struct {
	store   ledger.Store
	journal Journal
	config  Config
	now     func() time.Time
}

// New creates an Engine. A zero Stake means DefaultStake.
func New(store ledger.Store, config Config) *Engine {
	if config.Stake == 0 {
		config.Stake = DefaultStake
	}
	return &Engine{
		store:  store,
		config: config,
		now:    time.Now,
	}
}

// WithJournal enables the double-booking guard.
func (e *Engine) WithJournal(j Journal) *Engine {
	e.journal = j
	return e
}

// CountHits counts drawn numbers that are among the guesses. Duplicate drawn
// numbers are counted independently.
func CountHits(draw models.DrawRecord, guesses models.GuessSet) models.Hits {
	var h models.Hits
	for _, n := range draw.PrimaryNumbers {
		if guesses.HasPrimary(n) {
			h.Primary++
		}
	}
	for _, n := range draw.SecondaryNumbers {
		if guesses.HasSecondary(n) {
			h.Secondary++
		}
	}
	return h
}

// Reconcile books one draw: L_new = L_old - stake + money won.
// A failed ledger read leaves the ledger untouched.
func (e *Engine) Reconcile(ctx context.Context, draw models.DrawRecord, guesses models.GuessSet) (models.Reconciliation, error) {
	hits := CountHits(draw, guesses)
	table := models.NewPrizeTable(draw.PrizeTiers)
	if skipped := table.Skipped(); len(skipped) > 0 {
		logger.Debug("Draw %s: ignoring non-hit prize tiers %v", draw.ID, skipped)
	}
	won := table.Lookup(hits)

	rec := models.Reconciliation{
		RunID:    e.config.RunID,
		DrawID:   draw.ID,
		Hits:     hits,
		MoneyWon: won,
	}

	if e.journal != nil {
		done, err := e.journal.Reconciled(ctx, draw.ID)
		if err != nil {
			return rec, &JournalError{DrawID: draw.ID, Err: err}
		}
		if done {
			return rec, fmt.Errorf("draw %s: %w", draw.ID, ErrAlreadyReconciled)
		}
	}

	before, err := e.store.Get(ctx, e.config.LedgerKey)
	if err != nil {
		return rec, &LedgerError{Op: OpRead, Key: e.config.LedgerKey, Err: err}
	}
	after := before - e.config.Stake + won

	rec.LedgerBefore = before
	rec.LedgerAfter = after
	rec.ReconciledAt = e.now()

	if err := e.store.Put(ctx, e.config.LedgerKey, after); err != nil {
		return rec, &LedgerError{Op: OpWrite, Key: e.config.LedgerKey, Value: after, Err: err}
	}
	logger.Info("Draw %s: %s, won %d, ledger %d -> %d", draw.ID, hits.Label(), won, before, after)

	if e.journal != nil {
		if err := e.journal.Record(ctx, rec); err != nil {
			return rec, &JournalError{DrawID: draw.ID, Err: err}
		}
	}
	return rec, nil
}
