// Package sim produces the simulated price feed: a bounded random walk
// per market, advanced one atomic step per tick.
package sim

import (
	"context"
	"math/rand"
	"time"

	"github.com/bangperp/perpsim/market"
)

const (
	// DefaultMaxMove bounds the per-tick perturbation to ±0.5% so prices
	// stay continuous and never jump.
	DefaultMaxMove = 0.005

	DefaultInterval = 2 * time.Second
)

type Simulator struct {
	markets *market.Store
	maxMove float64
	rng     *rand.Rand
}

// New builds a simulator over the given store. seed fixes the walk for
// deterministic tests; pass 0 to seed from the clock.
func New(markets *market.Store, maxMove float64, seed int64) *Simulator {
	if maxMove <= 0 {
		maxMove = DefaultMaxMove
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Simulator{
		markets: markets,
		maxMove: maxMove,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Step advances every market one tick independently:
//
//	price' = price * (1 + noise), noise uniform in ±maxMove
//	change24h = (price' - basePrice) / basePrice * 100
//
// The updates are applied to the store and returned for the ledger's
// mark-to-market pass. Step cannot fail and never blocks.
func (s *Simulator) Step() []market.Update {
	markets := s.markets.List()
	updates := make([]market.Update, 0, len(markets))

	for _, m := range markets {
		noise := (s.rng.Float64()*2 - 1) * s.maxMove
		price := m.CurrentPrice * (1 + noise)
		updates = append(updates, market.Update{
			MarketID:  m.ID,
			Price:     price,
			Change24h: (price - m.BasePrice) / m.BasePrice * 100,
		})
	}

	s.markets.Apply(updates)
	return updates
}

// Run steps the simulation on a fixed interval until ctx is cancelled,
// invoking fn with each tick's update batch. Each iteration is one atomic
// unit of work: a cancelled context never leaves a tick half-applied.
func (s *Simulator) Run(ctx context.Context, interval time.Duration, fn func([]market.Update)) error {
	if interval <= 0 {
		interval = DefaultInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			fn(s.Step())
		}
	}
}
