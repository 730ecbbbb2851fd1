package market

import (
	"errors"
	"sync"
)

// ErrNotFound is returned by Get for an unknown market id.
var ErrNotFound = errors.New("market not found")

// Store holds the latest state of every market. Reads and writes may come
// from the simulator, the ledger and the feed concurrently.
type Store struct {
	mu      sync.RWMutex
	markets map[string]Market
	order   []string // configured display order
}

// NewStore seeds a store with the given markets. CurrentPrice starts at
// BasePrice and Change24h at zero, matching a fresh session.
func NewStore(markets []Market) *Store {
	s := &Store{markets: make(map[string]Market, len(markets))}
	for _, m := range markets {
		if m.CurrentPrice == 0 {
			m.CurrentPrice = m.BasePrice
		}
		s.markets[m.ID] = m
		s.order = append(s.order, m.ID)
	}
	return s
}

func (s *Store) Get(id string) (Market, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.markets[id]
	if !ok {
		return Market{}, ErrNotFound
	}
	return m, nil
}

// Apply installs a batch of updates. Updates for unknown markets are
// ignored rather than erroring so stale feeds cannot wedge a tick.
func (s *Store) Apply(updates []Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range updates {
		m, ok := s.markets[u.MarketID]
		if !ok {
			continue
		}
		m.CurrentPrice = u.Price
		m.Change24h = u.Change24h
		s.markets[u.MarketID] = m
	}
}

// List returns the markets in configured order.
func (s *Store) List() []Market {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Market, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.markets[id])
	}
	return out
}
