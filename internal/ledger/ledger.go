// Package ledger persists the running investment balance under a named key.
// Values are signed integers in cents.
package ledger

import (
	"context"
	"errors"
	"fmt"
)

// ErrKeyNotFound is returned by Get when the key was never provisioned.
var ErrKeyNotFound = errors.New("ledger: key not found")

// Store is a get/set view of a persistent key-value parameter store.
type Store interface {
	Get(ctx context.Context, key string) (int64, error)
	Put(ctx context.Context, key string, value int64) error
}

// Provision writes value under key only if the key does not exist yet.
// It reports whether a write happened.
func Provision(ctx context.Context, s Store, key string, value int64) (bool, error) {
	_, err := s.Get(ctx, key)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrKeyNotFound) {
		return false, fmt.Errorf("failed to check ledger key %s: %w", key, err)
	}
	if err := s.Put(ctx, key, value); err != nil {
		return false, fmt.Errorf("failed to provision ledger key %s: %w", key, err)
	}
	return true, nil
}
