package journal

import (
	"fmt"
	"strings"
)

// FormatTrade renders a single trade record as plain text for the CLI.
func FormatTrade(t TradeRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "position  %s\n", t.PositionID)
	fmt.Fprintf(&b, "market    %s %s %.0fx\n", t.MarketSymbol, strings.ToUpper(string(t.Side)), t.Leverage)
	fmt.Fprintf(&b, "size      $%.2f\n", t.Size)
	fmt.Fprintf(&b, "entry     $%.2f  (%s)\n", t.EntryPrice, t.OpenedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "exit      $%.2f  (%s)\n", t.ExitPrice, t.ClosedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "realized  %s  (%+.2f%%)  [%s]", signedUSD(t.RealizedPnl), t.RealizedPct, t.Reason)
	return b.String()
}

// FormatTrades renders a day-style summary table with a realized P&L total.
func FormatTrades(recs []TradeRecord) string {
	if len(recs) == 0 {
		return "no closed trades"
	}

	var b strings.Builder
	var total float64
	fmt.Fprintf(&b, "%-28s %-10s %-6s %10s %10s %12s\n",
		"position", "market", "side", "entry", "exit", "realized")
	for _, t := range recs {
		total += t.RealizedPnl
		fmt.Fprintf(&b, "%-28s %-10s %-6s %10.2f %10.2f %12s\n",
			t.PositionID, t.MarketSymbol, t.Side, t.EntryPrice, t.ExitPrice, signedUSD(t.RealizedPnl))
	}
	fmt.Fprintf(&b, "%d trades, total realized %s", len(recs), signedUSD(total))
	return b.String()
}

func signedUSD(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("+$%.2f", v)
	}
	return fmt.Sprintf("-$%.2f", -v)
}
