// Package app wires the engine together: config, logging, persistence,
// journal, ledger, price simulator and the live feed.
package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/bangperp/perpsim/config"
	"github.com/bangperp/perpsim/feed"
	"github.com/bangperp/perpsim/journal"
	"github.com/bangperp/perpsim/ledger"
	"github.com/bangperp/perpsim/market"
	"github.com/bangperp/perpsim/notify"
	"github.com/bangperp/perpsim/sim"
	"github.com/bangperp/perpsim/store"
)

type App struct {
	cfg *config.Config
	log *zap.Logger

	Markets *market.Store
	Ledger  *ledger.Ledger

	sim     *sim.Simulator
	saver   *store.Saver
	feed    *feed.Server // nil when disabled
	journal journal.Journal
	state   store.Store
}

// New bootstraps every component from the config. Persisted state is
// loaded before the ledger is handed out, so callers always see the
// previous session's balance and positions.
func New(cfg *config.Config) (*App, error) {
	log, err := NewLogger(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	st, err := newStore(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("state store: %w", err)
	}

	j, err := newJournal(cfg.Journal)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("journal: %w", err)
	}

	markets := market.NewStore(cfg.Markets)
	led := ledger.New(cfg.Account.StartingBalance, markets, j)
	led.SetNotifier(notify.NewLog(log))

	snap, err := store.LoadSnapshot(st, cfg.Account.StartingBalance)
	if err != nil {
		j.Close()
		st.Close()
		return nil, fmt.Errorf("load state: %w", err)
	}
	led.Restore(snap)

	saver := store.NewSaver(st, log)
	led.SetChangeListener(saver.Enqueue)

	a := &App{
		cfg:     cfg,
		log:     log,
		Markets: markets,
		Ledger:  led,
		sim:     sim.New(markets, cfg.Simulation.MaxMovePerTick, cfg.Simulation.Seed),
		saver:   saver,
		journal: j,
		state:   st,
	}
	if cfg.Feed.Enabled {
		a.feed = feed.NewServer(cfg.Feed.Addr, log)
	}
	return a, nil
}

func (a *App) Logger() *zap.Logger { return a.log }

// Run drives the tick loop until ctx is cancelled, alongside the async
// saver and the optional feed server. Shutdown is clean: the loop stops
// between ticks and the saver flushes the last snapshot.
func (a *App) Run(ctx context.Context) error {
	interval, err := a.cfg.Simulation.ParseInterval()
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return a.saver.Run(ctx) })
	if a.feed != nil {
		g.Go(func() error { return a.feed.Run(ctx) })
	}
	g.Go(func() error { return a.sim.Run(ctx, interval, a.onTick) })

	a.log.Info("engine running",
		zap.Duration("tick_interval", interval),
		zap.Float64("balance", a.Ledger.Balance()),
		zap.Int("markets", len(a.Markets.List())))

	return g.Wait()
}

// onTick is the per-tick pipeline: mark all open positions against the
// fresh prices, persist, then publish to the feed. Aggregate reads are
// only taken after the mark pass so clients never observe a half-updated
// open set.
func (a *App) onTick(updates []market.Update) {
	a.Ledger.MarkToMarket(updates)
	a.saver.Enqueue(a.Ledger.Snapshot())

	if a.feed != nil {
		a.feed.Broadcast(feed.Frame{
			Type: feed.TypeTick,
			Data: feed.TickData{
				Markets:   a.Markets.List(),
				Positions: a.Ledger.OpenPositions(),
				Balance:   a.Ledger.Balance(),
				Totals:    a.Ledger.Totals(),
			},
		})
	}
}

// Close releases the journal and state store. Call after Run returns.
func (a *App) Close() error {
	jerr := a.journal.Close()
	serr := a.state.Close()
	if jerr != nil {
		return jerr
	}
	return serr
}

// NewLogger builds the process logger at the configured level.
func NewLogger(level string) (*zap.Logger, error) {
	if level == "" {
		level = "info"
	}
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	return cfg.Build()
}

func newStore(cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Type {
	case "sqlite":
		return store.NewSQLite(cfg.DBPath)
	case "memory":
		return store.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store type %q", cfg.Type)
	}
}

func newJournal(cfg config.JournalConfig) (journal.Journal, error) {
	switch cfg.Type {
	case "sqlite":
		return journal.NewSQLite(cfg.DBPath)
	case "csv":
		return journal.NewCSV(cfg.TradesFile, cfg.EquityFile)
	case "none":
		return journal.Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown journal type %q", cfg.Type)
	}
}
