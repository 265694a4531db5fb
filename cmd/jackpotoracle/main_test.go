package main

import (
	"context"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewired-gh/jackpotoracle/internal/ledger"
	"github.com/rewired-gh/jackpotoracle/internal/notify"
)

const ledgerKey = "/ejackpot/investment"

func TestInitLedgerZeroCountsAsSet(t *testing.T) {
	assert.False(t, isFlagSet("init-ledger"))

	require.NoError(t, flag.Set("init-ledger", "0"))
	t.Cleanup(func() { *initLedger = 0 })

	assert.True(t, isFlagSet("init-ledger"))
	assert.Equal(t, int64(0), *initLedger)
}

func TestProvisionLedger_ZeroBalance(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewMemory(nil)

	require.NoError(t, provisionLedger(ctx, store, ledgerKey, 0))

	v, err := store.Get(ctx, ledgerKey)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)
	assert.Equal(t, 1, store.Puts())
}

func TestProvisionLedger_ExistingKeyUnchanged(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewMemory(map[string]int64{ledgerKey: -12400})

	require.NoError(t, provisionLedger(ctx, store, ledgerKey, 0))

	v, err := store.Get(ctx, ledgerKey)
	require.NoError(t, err)
	assert.Equal(t, int64(-12400), v)
	assert.Equal(t, 0, store.Puts())
}

func TestMarkupFor(t *testing.T) {
	assert.Equal(t, notify.DiscordMarkup{}, markupFor(notify.WriterSender{}))
	assert.Equal(t, notify.TelegramMarkup{}, markupFor(&notify.TelegramSender{}))
}
