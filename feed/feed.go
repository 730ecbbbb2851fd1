// Package feed pushes live engine state to presentation-layer clients
// over WebSocket. It is read-only: nothing here mutates core state.
package feed

import (
	"github.com/bangperp/perpsim/ledger"
	"github.com/bangperp/perpsim/market"
)

// Frame is one WebSocket message.
type Frame struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

const TypeTick = "tick"

// TickData is the per-tick state a UI needs to render everything: the
// market cards, the open positions, the balance and the portfolio totals.
type TickData struct {
	Markets   []market.Market   `json:"markets"`
	Positions []ledger.Position `json:"positions"`
	Balance   float64           `json:"balance"`
	Totals    ledger.Totals     `json:"totals"`
}
