// Package market defines the simulated perpetual markets and the
// concurrent store that holds their latest state.
package market

// Market is one tradable perpetual contract. BasePrice is the fixed
// simulation anchor; CurrentPrice mutates every tick and Change24h is the
// percent deviation of CurrentPrice from BasePrice.
type Market struct {
	ID           string  `json:"id" yaml:"id"`
	Symbol       string  `json:"symbol" yaml:"symbol"`
	Name         string  `json:"name" yaml:"name"`
	BasePrice    float64 `json:"basePrice" yaml:"basePrice"`
	CurrentPrice float64 `json:"currentPrice" yaml:"-"`
	Change24h    float64 `json:"change24h" yaml:"-"`
	Volume24h    string  `json:"volume24h" yaml:"volume24h"`
	Icon         string  `json:"icon" yaml:"icon"`
}

// Update is one per-tick price sample for a single market. This is the
// unit the ledger consumes when marking positions to market.
type Update struct {
	MarketID  string
	Price     float64
	Change24h float64
}

// Defaults returns the built-in market set used when the config does not
// supply its own.
func Defaults() []Market {
	return []Market{
		{
			ID:        "btc",
			Symbol:    "BTC-PERP",
			Name:      "Bitcoin Perpetual",
			BasePrice: 67500,
			Volume24h: "$2.4B",
			Icon:      "₿",
		},
		{
			ID:        "eth",
			Symbol:    "ETH-PERP",
			Name:      "Ethereum Perpetual",
			BasePrice: 3200,
			Volume24h: "$1.8B",
			Icon:      "Ξ",
		},
		{
			ID:        "sol",
			Symbol:    "SOL-PERP",
			Name:      "Solana Perpetual",
			BasePrice: 145,
			Volume24h: "$890M",
			Icon:      "◎",
		},
	}
}
