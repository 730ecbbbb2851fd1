// Package journal records the append-only trading history: one TradeRecord
// per closed position and one EquitySnapshot per simulation tick.
package journal

import (
	"time"

	"github.com/bangperp/perpsim/margin"
)

type TradeRecord struct {
	PositionID   string
	MarketSymbol string
	Side         margin.Side
	Size         float64
	Leverage     float64
	EntryPrice   float64
	ExitPrice    float64
	OpenedAt     time.Time
	ClosedAt     time.Time
	RealizedPnl  float64
	RealizedPct  float64
	Reason       string
}

type EquitySnapshot struct {
	Time          time.Time
	Balance       float64
	TotalValue    float64
	UnrealizedPnl float64
	OpenPositions int
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// Nop discards everything. Useful for tests and for running without a
// journal configured.
type Nop struct{}

func (Nop) RecordTrade(TradeRecord) error     { return nil }
func (Nop) RecordEquity(EquitySnapshot) error { return nil }
func (Nop) Close() error                      { return nil }
