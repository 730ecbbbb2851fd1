// Package notify delivers user-facing trade events. Delivery is
// fire-and-forget: the ledger never depends on the outcome.
package notify

import (
	"strings"

	"go.uber.org/zap"

	"github.com/bangperp/perpsim/ledger"
	"github.com/bangperp/perpsim/margin"
)

// Log writes trade events through a zap logger. It stands in for the
// toast notifications a UI would show.
type Log struct {
	log *zap.Logger
}

func NewLog(log *zap.Logger) *Log {
	if log == nil {
		log = zap.NewNop()
	}
	return &Log{log: log}
}

func (n *Log) PositionOpened(p ledger.Position) {
	n.log.Info(strings.ToUpper(string(p.Side))+" position opened",
		zap.String("position_id", p.ID),
		zap.String("market", p.MarketSymbol),
		zap.Float64("size", p.Size),
		zap.Float64("leverage", p.Leverage),
		zap.Float64("entry_price", p.EntryPrice),
		zap.Float64("liquidation_price", p.LiquidationPrice))
}

func (n *Log) PositionClosed(c ledger.ClosedPosition) {
	n.log.Info("position closed",
		zap.String("position_id", c.ID),
		zap.String("market", c.MarketSymbol),
		zap.Float64("exit_price", c.ExitPrice),
		zap.Float64("realized_pnl", c.RealizedPnl),
		zap.Float64("realized_pct", c.RealizedPnlPct))
}

func (n *Log) TradeRejected(marketID string, side margin.Side, size, leverage float64, reason error) {
	n.log.Warn("trade rejected",
		zap.String("market", marketID),
		zap.String("side", string(side)),
		zap.Float64("size", size),
		zap.Float64("leverage", leverage),
		zap.Error(reason))
}

// Nop discards all events.
type Nop struct{}

func (Nop) PositionOpened(ledger.Position)                             {}
func (Nop) PositionClosed(ledger.ClosedPosition)                       {}
func (Nop) TradeRejected(string, margin.Side, float64, float64, error) {}
