package ledger

import (
	"time"

	"github.com/bangperp/perpsim/margin"
)

// Position is one open leveraged position. EntryPrice and
// LiquidationPrice are fixed at open time; CurrentPrice, UnrealizedPnl
// and UnrealizedPnlPercent always hold the last mark-to-market pass and
// are never edited independently.
type Position struct {
	ID               string      `json:"id"`
	MarketID         string      `json:"marketId"`
	MarketSymbol     string      `json:"marketSymbol"`
	Side             margin.Side `json:"side"`
	Size             float64     `json:"size"`
	Leverage         float64     `json:"leverage"`
	EntryPrice       float64     `json:"entryPrice"`
	CurrentPrice     float64     `json:"currentPrice"`
	LiquidationPrice float64     `json:"liquidationPrice"`
	UnrealizedPnl    float64     `json:"unrealizedPnl"`
	UnrealizedPnlPct float64     `json:"unrealizedPnlPercent"`
	Timestamp        time.Time   `json:"timestamp"`
}

// ClosedPosition is an immutable history record: the position as it was
// at the moment of close plus the realized outcome.
type ClosedPosition struct {
	Position
	ExitPrice      float64   `json:"exitPrice"`
	RealizedPnl    float64   `json:"realizedPnl"`
	RealizedPnlPct float64   `json:"realizedPnlPercent"`
	ClosedAt       time.Time `json:"closedAt"`
}

// Totals are the derived portfolio aggregates, recomputed on demand from
// ledger state and never stored.
type Totals struct {
	TotalValue    float64 `json:"totalValue"`
	UnrealizedPnl float64 `json:"totalUnrealizedPnl"`
}

// Snapshot is the persistable view of the ledger, shaped to round-trip
// through the state store as JSON.
type Snapshot struct {
	Balance float64          `json:"balance"`
	Open    []Position       `json:"openPositions"`
	Closed  []ClosedPosition `json:"closedPositions"`
}
