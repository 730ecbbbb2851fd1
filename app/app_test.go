package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bangperp/perpsim/config"
	"github.com/bangperp/perpsim/margin"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Simulation.TickInterval = "5ms"
	cfg.Simulation.Seed = 42
	cfg.Journal = config.JournalConfig{Type: "none"}
	cfg.Store = config.StoreConfig{Type: "memory"}
	cfg.Feed.Enabled = false
	cfg.Logging.Level = "error"
	return cfg
}

func TestAppRunMarksOpenPositions(t *testing.T) {
	t.Parallel()

	a, err := New(testConfig())
	require.NoError(t, err)
	defer a.Close()

	pos, err := a.Ledger.Open("btc", margin.Long, 1000, 10)
	require.NoError(t, err)
	assert.Equal(t, 9000.0, a.Ledger.Balance())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	require.NoError(t, a.Run(ctx))

	// Prices moved, so the position must carry a fresh mark.
	open := a.Ledger.OpenPositions()
	require.Len(t, open, 1)
	assert.Equal(t, pos.ID, open[0].ID)
	assert.NotEqual(t, pos.EntryPrice, open[0].CurrentPrice)
	assert.Equal(t, pos.EntryPrice, open[0].EntryPrice)
	assert.Equal(t, pos.LiquidationPrice, open[0].LiquidationPrice)

	// Markets walked away from their base prices.
	moved := false
	for _, m := range a.Markets.List() {
		if m.CurrentPrice != m.BasePrice {
			moved = true
		}
	}
	assert.True(t, moved)
}

func TestAppRestoresPersistedState(t *testing.T) {
	t.Parallel()

	cfg := testConfig()

	a, err := New(cfg)
	require.NoError(t, err)

	_, err = a.Ledger.Open("eth", margin.Short, 2500, 5)
	require.NoError(t, err)

	// The memory store does not outlive the app, so prove restart behavior
	// through the snapshot round trip the app performs at startup.
	snap := a.Ledger.Snapshot()
	require.NoError(t, a.Close())

	b, err := New(cfg)
	require.NoError(t, err)
	defer b.Close()

	b.Ledger.Restore(snap)
	assert.Equal(t, 7500.0, b.Ledger.Balance())
	assert.Len(t, b.Ledger.OpenPositions(), 1)
}

func TestNewLoggerRejectsBadLevel(t *testing.T) {
	t.Parallel()

	_, err := NewLogger("loud")
	assert.Error(t, err)

	log, err := NewLogger("")
	assert.NoError(t, err)
	assert.NotNil(t, log)
}
