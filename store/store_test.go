package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bangperp/perpsim/ledger"
	"github.com/bangperp/perpsim/margin"
)

func sampleSnapshot() ledger.Snapshot {
	opened := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	return ledger.Snapshot{
		Balance: 8_750.25,
		Open: []ledger.Position{
			{
				ID:               "01POS",
				MarketID:         "btc",
				MarketSymbol:     "BTC-PERP",
				Side:             margin.Long,
				Size:             1000,
				Leverage:         10,
				EntryPrice:       67500,
				CurrentPrice:     67800,
				LiquidationPrice: 64125,
				UnrealizedPnl:    44.44,
				UnrealizedPnlPct: 4.444,
				Timestamp:        opened,
			},
		},
		Closed: []ledger.ClosedPosition{
			{
				Position: ledger.Position{
					ID:           "01OLD",
					MarketID:     "eth",
					MarketSymbol: "ETH-PERP",
					Side:         margin.Short,
					Size:         250,
					Leverage:     5,
					EntryPrice:   3200,
					Timestamp:    opened.Add(-time.Hour),
				},
				ExitPrice:      3100,
				RealizedPnl:    39.0625,
				RealizedPnlPct: 15.625,
				ClosedAt:       opened.Add(-30 * time.Minute),
			},
		},
	}
}

func TestMemoryLoadMissingKey(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	_, err := m.Load("nope")
	assert.ErrorIs(t, err, ErrNoValue)
}

func TestSnapshotRoundTripMemory(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	snap := sampleSnapshot()

	assert.NoError(t, SaveSnapshot(m, snap))

	got, err := LoadSnapshot(m, 10_000)
	assert.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestLoadSnapshotDefaults(t *testing.T) {
	t.Parallel()

	got, err := LoadSnapshot(NewMemory(), 10_000)
	assert.NoError(t, err)
	assert.Equal(t, 10_000.0, got.Balance)
	assert.Empty(t, got.Open)
	assert.Empty(t, got.Closed)
}

func TestSnapshotRoundTripSQLite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.db")
	s, err := NewSQLite(path)
	assert.NoError(t, err)

	snap := sampleSnapshot()
	assert.NoError(t, SaveSnapshot(s, snap))
	assert.NoError(t, s.Close())

	// Reopen to prove the state survived.
	s2, err := NewSQLite(path)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = s2.Close() })

	got, err := LoadSnapshot(s2, 10_000)
	assert.NoError(t, err)
	assert.Equal(t, snap.Balance, got.Balance)
	assert.Equal(t, snap.Open, got.Open)
	assert.Equal(t, snap.Closed, got.Closed)
}

func TestSQLiteSaveOverwrites(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.db")
	s, err := NewSQLite(path)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	assert.NoError(t, s.Save(KeyBalance, []byte("1")))
	assert.NoError(t, s.Save(KeyBalance, []byte("2")))

	got, err := s.Load(KeyBalance)
	assert.NoError(t, err)
	assert.Equal(t, []byte("2"), got)
}

func TestSaverFlushesLatestOnShutdown(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	sv := NewSaver(m, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sv.Run(ctx) }()

	first := sampleSnapshot()
	second := sampleSnapshot()
	second.Balance = 1234.5
	sv.Enqueue(first)
	sv.Enqueue(second) // coalesces; only the latest must survive

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatalf("saver did not stop")
	}

	got, err := LoadSnapshot(m, 0)
	assert.NoError(t, err)
	assert.Equal(t, 1234.5, got.Balance)
}
