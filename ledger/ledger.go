// Package ledger owns the authoritative trading state: the cash balance,
// the open positions and the closed-position history. Every mutation
// (open, close, mark-to-market) runs atomically behind one mutex, so a
// caller that opens and immediately closes always observes its own write.
package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/bangperp/perpsim/internal/id"
	"github.com/bangperp/perpsim/journal"
	"github.com/bangperp/perpsim/margin"
	"github.com/bangperp/perpsim/market"
)

// Notifier receives user-facing trade events. Calls are fire-and-forget:
// no ledger state depends on their outcome and they run outside the lock.
type Notifier interface {
	PositionOpened(p Position)
	PositionClosed(c ClosedPosition)
	TradeRejected(marketID string, side margin.Side, size, leverage float64, reason error)
}

// ChangeListener is invoked with a fresh snapshot after every successful
// mutation, outside the lock. The app uses it to schedule persistence.
type ChangeListener func(Snapshot)

const closeReasonManual = "ManualClose"

type Ledger struct {
	mu      sync.Mutex
	balance float64
	open    []Position       // insertion order
	closed  []ClosedPosition // most recent first

	markets  *market.Store
	journal  journal.Journal
	notifier Notifier
	listener ChangeListener
}

func New(startingBalance float64, markets *market.Store, j journal.Journal) *Ledger {
	if j == nil {
		j = journal.Nop{}
	}
	return &Ledger{
		balance: startingBalance,
		markets: markets,
		journal: j,
	}
}

// SetNotifier installs an optional notification sink.
func (l *Ledger) SetNotifier(n Notifier) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notifier = n
}

// SetChangeListener installs an optional persistence callback.
func (l *Ledger) SetChangeListener(fn ChangeListener) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listener = fn
}

// Open validates and executes a market open. On success the balance is
// debited by size and the new position is appended to the open set. On
// failure no state changes and the error is reported once via the
// notifier.
func (l *Ledger) Open(marketID string, side margin.Side, size, leverage float64) (Position, error) {
	l.mu.Lock()

	if err := l.validateOpenLocked(marketID, side, size, leverage); err != nil {
		notifier := l.notifier
		l.mu.Unlock()
		if notifier != nil {
			notifier.TradeRejected(marketID, side, size, leverage, err)
		}
		return Position{}, err
	}

	m, _ := l.markets.Get(marketID)

	pos := Position{
		ID:               id.New(),
		MarketID:         m.ID,
		MarketSymbol:     m.Symbol,
		Side:             side,
		Size:             size,
		Leverage:         leverage,
		EntryPrice:       m.CurrentPrice,
		CurrentPrice:     m.CurrentPrice,
		LiquidationPrice: margin.LiquidationPrice(m.CurrentPrice, leverage, side, margin.MaintenanceMargin),
		Timestamp:        time.Now(),
	}

	l.balance -= size
	l.open = append(l.open, pos)

	notifier := l.notifier
	listener := l.listener
	snap := l.snapshotLocked()
	l.mu.Unlock()

	if notifier != nil {
		notifier.PositionOpened(pos)
	}
	if listener != nil {
		listener(snap)
	}
	return pos, nil
}

func (l *Ledger) validateOpenLocked(marketID string, side margin.Side, size, leverage float64) error {
	if !side.Valid() {
		return fmt.Errorf("%w: unknown side %q", ErrInvalidParameters, side)
	}
	if size <= 0 {
		return fmt.Errorf("%w: size %.2f must be positive", ErrInvalidParameters, size)
	}
	if leverage < margin.MinLeverage || leverage > margin.MaxLeverage {
		return fmt.Errorf("%w: leverage %.0fx outside [%.0f, %.0f]",
			ErrInvalidParameters, leverage, margin.MinLeverage, margin.MaxLeverage)
	}
	if _, err := l.markets.Get(marketID); err != nil {
		return fmt.Errorf("%w: unknown market %q", ErrInvalidParameters, marketID)
	}
	if size > l.balance {
		return fmt.Errorf("%w: size %.2f exceeds balance %.2f", ErrInsufficientBalance, size, l.balance)
	}
	return nil
}

// Close closes an open position at its last mark. The balance is credited
// with size + unrealizedPnl; an over-leveraged loss can therefore push the
// balance negative, which the ledger deliberately allows. Closing an
// unknown ID is a no-op so duplicate closes from the UI stay harmless.
func (l *Ledger) Close(positionID string) (ClosedPosition, bool) {
	l.mu.Lock()

	idx := -1
	for i, p := range l.open {
		if p.ID == positionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		l.mu.Unlock()
		return ClosedPosition{}, false
	}

	pos := l.open[idx]
	closed := ClosedPosition{
		Position:       pos,
		ExitPrice:      pos.CurrentPrice,
		RealizedPnl:    pos.UnrealizedPnl,
		RealizedPnlPct: pos.UnrealizedPnlPct,
		ClosedAt:       time.Now(),
	}

	l.balance += pos.Size + pos.UnrealizedPnl
	l.open = append(l.open[:idx], l.open[idx+1:]...)
	l.closed = append([]ClosedPosition{closed}, l.closed...)

	l.recordTradeLocked(closed, closeReasonManual)

	notifier := l.notifier
	listener := l.listener
	snap := l.snapshotLocked()
	l.mu.Unlock()

	if notifier != nil {
		notifier.PositionClosed(closed)
	}
	if listener != nil {
		listener(snap)
	}
	return closed, true
}

// MarkToMarket re-marks every open position against the tick's update
// batch in one atomic pass. Positions whose market is absent from the
// batch keep their previous mark. The pass is idempotent: applying the
// same batch twice produces identical position fields.
func (l *Ledger) MarkToMarket(updates []market.Update) {
	byID := make(map[string]market.Update, len(updates))
	for _, u := range updates {
		byID[u.MarketID] = u
	}

	l.mu.Lock()

	for i := range l.open {
		p := &l.open[i]
		u, ok := byID[p.MarketID]
		if !ok {
			continue
		}
		p.CurrentPrice = u.Price
		p.UnrealizedPnl = margin.UnrealizedPnl(p.EntryPrice, u.Price, p.Size, p.Leverage, p.Side)
		p.UnrealizedPnlPct = margin.PnlPercent(p.UnrealizedPnl, p.Size)
	}

	totals := l.totalsLocked()
	snap := journal.EquitySnapshot{
		Time:          time.Now(),
		Balance:       l.balance,
		TotalValue:    totals.TotalValue,
		UnrealizedPnl: totals.UnrealizedPnl,
		OpenPositions: len(l.open),
	}
	l.mu.Unlock()

	// Journal failures never affect ledger state.
	_ = l.journal.RecordEquity(snap)
}

func (l *Ledger) recordTradeLocked(c ClosedPosition, reason string) {
	_ = l.journal.RecordTrade(journal.TradeRecord{
		PositionID:   c.ID,
		MarketSymbol: c.MarketSymbol,
		Side:         c.Side,
		Size:         c.Size,
		Leverage:     c.Leverage,
		EntryPrice:   c.EntryPrice,
		ExitPrice:    c.ExitPrice,
		OpenedAt:     c.Timestamp,
		ClosedAt:     c.ClosedAt,
		RealizedPnl:  c.RealizedPnl,
		RealizedPct:  c.RealizedPnlPct,
		Reason:       reason,
	})
}

// Balance returns the uncommitted cash balance.
func (l *Ledger) Balance() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

// OpenPositions returns the open set in insertion order.
func (l *Ledger) OpenPositions() []Position {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Position, len(l.open))
	copy(out, l.open)
	return out
}

// ClosedPositions returns the history, most recent first.
func (l *Ledger) ClosedPositions() []ClosedPosition {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]ClosedPosition, len(l.closed))
	copy(out, l.closed)
	return out
}

// Totals recomputes the derived portfolio aggregates:
// totalValue = balance + Σ size + Σ unrealizedPnl.
func (l *Ledger) Totals() Totals {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalsLocked()
}

func (l *Ledger) totalsLocked() Totals {
	var size, pnl float64
	for _, p := range l.open {
		size += p.Size
		pnl += p.UnrealizedPnl
	}
	return Totals{
		TotalValue:    l.balance + size + pnl,
		UnrealizedPnl: pnl,
	}
}

// Snapshot captures the persistable ledger state.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *Ledger) snapshotLocked() Snapshot {
	snap := Snapshot{
		Balance: l.balance,
		Open:    make([]Position, len(l.open)),
		Closed:  make([]ClosedPosition, len(l.closed)),
	}
	copy(snap.Open, l.open)
	copy(snap.Closed, l.closed)
	return snap
}

// Restore replaces ledger state with a previously saved snapshot. Used at
// startup before the tick loop starts.
func (l *Ledger) Restore(snap Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balance = snap.Balance
	l.open = append(l.open[:0], snap.Open...)
	l.closed = append(l.closed[:0], snap.Closed...)
}
