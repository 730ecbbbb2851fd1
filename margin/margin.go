// Package margin holds the pure margin math for leveraged perpetual
// positions. Every function is stateless and safe to call concurrently.
package margin

// Side is the direction of a position.
type Side string

const (
	Long  Side = "long"
	Short Side = "short"
)

// Valid reports whether s is one of the two known sides.
func (s Side) Valid() bool { return s == Long || s == Short }

// sign is +1 for longs, -1 for shorts.
func (s Side) sign() float64 {
	if s == Short {
		return -1
	}
	return 1
}

const (
	// MaintenanceMargin is the fixed maintenance margin ratio used when
	// computing liquidation prices.
	MaintenanceMargin = 0.05

	MinLeverage = 1.0
	MaxLeverage = 20.0
)

// LiquidationPrice returns the price at which a position opened at entry
// with the given leverage would be liquidated. It is evaluated once, at
// open time, and never changes for the life of the position.
//
//	long:  entry * (1 - 1/leverage + maintenanceMargin)
//	short: entry * (1 + 1/leverage - maintenanceMargin)
//
// entry > 0 and leverage >= 1 are preconditions enforced by the ledger.
func LiquidationPrice(entry, leverage float64, side Side, maintenanceMargin float64) float64 {
	if side == Long {
		return entry * (1 - 1/leverage + maintenanceMargin)
	}
	return entry * (1 + 1/leverage - maintenanceMargin)
}

// UnrealizedPnl returns the leverage-multiplied profit or loss of a
// position marked at current, in the same currency as size.
func UnrealizedPnl(entry, current, size, leverage float64, side Side) float64 {
	return ((current - entry) / entry) * size * leverage * side.sign()
}

// PnlPercent expresses pnl as a percentage of the position's collateral.
func PnlPercent(pnl, size float64) float64 {
	return pnl / size * 100
}

// PositionValue is the notional exposure of a position: collateral
// multiplied by leverage.
func PositionValue(size, leverage float64) float64 {
	return size * leverage
}
