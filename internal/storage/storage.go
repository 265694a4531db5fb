// Package storage provides SQLite-backed persistence for the ledger and the reconciliation journal.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rewired-gh/jackpotoracle/internal/ledger"
	"github.com/rewired-gh/jackpotoracle/internal/models"
	_ "modernc.org/sqlite"
)

// Storage wraps a SQLite database for all persistence operations.
type Storage struct {
	db         *sql.DB
	maxHistory int
}

// New opens or creates the SQLite database at dbPath.
// An empty dbPath defaults to $TMPDIR/jackpotoracle/data.db.
// maxHistory caps the journal; values below 1 keep every entry.
func New(maxHistory int, dbPath string) (*Storage, error) {
	if dbPath == "" {
		dbPath = filepath.Join(os.TempDir(), "jackpotoracle", "data.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer; WAL allows concurrent readers
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	s := &Storage{db: db, maxHistory: maxHistory}
	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) createTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ledger (
			key        TEXT PRIMARY KEY,
			value      INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS reconciliations (
			draw_id        TEXT PRIMARY KEY,
			run_id         TEXT NOT NULL,
			primary_hits   INTEGER NOT NULL,
			secondary_hits INTEGER NOT NULL,
			money_won      INTEGER NOT NULL,
			ledger_before  INTEGER NOT NULL,
			ledger_after   INTEGER NOT NULL,
			reconciled_at  INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reconciliations_at ON reconciliations(reconciled_at)`,
		// Never pruned: the history cap applies to reconciliations only.
		`CREATE TABLE IF NOT EXISTS reconciled_draws (
			draw_id TEXT PRIMARY KEY
		)`,
		`INSERT OR IGNORE INTO reconciled_draws (draw_id) SELECT draw_id FROM reconciliations`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Get implements ledger.Store.
func (s *Storage) Get(ctx context.Context, key string) (int64, error) {
	var v int64
	err := s.db.QueryRowContext(ctx, `SELECT value FROM ledger WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", ledger.ErrKeyNotFound, key)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read ledger: %w", err)
	}
	return v, nil
}

// Put implements ledger.Store.
func (s *Storage) Put(ctx context.Context, key string, value int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO ledger (key, value, updated_at) VALUES (?,?,?)`,
		key, value, time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	return nil
}

// Reconciled reports whether drawID was ever recorded, including entries
// already evicted from the history.
func (s *Storage) Reconciled(ctx context.Context, drawID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM reconciled_draws WHERE draw_id = ?`, drawID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to query journal: %w", err)
	}
	return n > 0, nil
}

// Record marks the draw as reconciled, appends a history entry and enforces
// the history cap.
func (s *Storage) Record(ctx context.Context, rec models.Reconciliation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err = tx.ExecContext(ctx, `INSERT INTO reconciled_draws (draw_id) VALUES (?)`, rec.DrawID); err != nil {
		return fmt.Errorf("failed to mark draw %s reconciled: %w", rec.DrawID, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO reconciliations
			(draw_id, run_id, primary_hits, secondary_hits, money_won,
			 ledger_before, ledger_after, reconciled_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		rec.DrawID, rec.RunID, rec.Hits.Primary, rec.Hits.Secondary, rec.MoneyWon,
		rec.LedgerBefore, rec.LedgerAfter, rec.ReconciledAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert reconciliation: %w", err)
	}

	if s.maxHistory > 0 {
		if _, err = tx.ExecContext(ctx, `
			DELETE FROM reconciliations WHERE draw_id NOT IN (
				SELECT draw_id FROM reconciliations ORDER BY reconciled_at DESC LIMIT ?
			)`, s.maxHistory); err != nil {
			return fmt.Errorf("failed to enforce history cap: %w", err)
		}
	}

	return tx.Commit()
}

// History returns up to limit journal entries, newest first.
func (s *Storage) History(ctx context.Context, limit int) ([]models.Reconciliation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT draw_id, run_id, primary_hits, secondary_hits, money_won,
		       ledger_before, ledger_after, reconciled_at
		FROM reconciliations ORDER BY reconciled_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var history []models.Reconciliation
	for rows.Next() {
		var rec models.Reconciliation
		var reconciledAtNano int64
		err := rows.Scan(
			&rec.DrawID, &rec.RunID, &rec.Hits.Primary, &rec.Hits.Secondary, &rec.MoneyWon,
			&rec.LedgerBefore, &rec.LedgerAfter, &reconciledAtNano,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reconciliation: %w", err)
		}
		rec.ReconciledAt = time.Unix(0, reconciledAtNano)
		history = append(history, rec)
	}
	return history, rows.Err()
}
