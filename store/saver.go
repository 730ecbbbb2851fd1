package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/bangperp/perpsim/ledger"
)

const saveRetries = 3

// Saver persists ledger snapshots asynchronously so the tick loop never
// blocks on storage. Snapshots are coalesced (only the latest matters)
// and writes are rate-limited to at most one per second. In-memory state
// stays authoritative for the session; a failed save is retried with
// backoff and then dropped in favor of the next snapshot.
type Saver struct {
	store Store
	log   *zap.Logger
	limit *rate.Limiter

	mu     sync.Mutex
	latest *ledger.Snapshot
	kick   chan struct{}
}

func NewSaver(s Store, log *zap.Logger) *Saver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Saver{
		store: s,
		log:   log,
		limit: rate.NewLimiter(rate.Every(time.Second), 1),
		kick:  make(chan struct{}, 1),
	}
}

// Enqueue records snap as the next state to persist. Never blocks.
func (sv *Saver) Enqueue(snap ledger.Snapshot) {
	sv.mu.Lock()
	sv.latest = &snap
	sv.mu.Unlock()

	select {
	case sv.kick <- struct{}{}:
	default:
	}
}

// Run drains queued snapshots until ctx is cancelled, then flushes the
// last pending snapshot so a clean shutdown loses nothing.
func (sv *Saver) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			sv.flush()
			return nil
		case <-sv.kick:
			if err := sv.limit.Wait(ctx); err != nil {
				sv.flush()
				return nil
			}
			sv.flush()
		}
	}
}

func (sv *Saver) flush() {
	sv.mu.Lock()
	snap := sv.latest
	sv.latest = nil
	sv.mu.Unlock()

	if snap == nil {
		return
	}

	var err error
	for attempt := 1; attempt <= saveRetries; attempt++ {
		if err = SaveSnapshot(sv.store, *snap); err == nil {
			return
		}
		time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
	}
	sv.log.Warn("state save failed, keeping in-memory state authoritative",
		zap.Error(err),
		zap.Int("attempts", saveRetries))
}

// SaveSnapshot writes the three ledger keys. Not atomic across keys; the
// loader tolerates a missing or stale key by falling back to defaults.
func SaveSnapshot(s Store, snap ledger.Snapshot) error {
	balance, err := json.Marshal(snap.Balance)
	if err != nil {
		return err
	}
	open, err := json.Marshal(snap.Open)
	if err != nil {
		return err
	}
	closed, err := json.Marshal(snap.Closed)
	if err != nil {
		return err
	}

	if err := s.Save(KeyBalance, balance); err != nil {
		return err
	}
	if err := s.Save(KeyOpenPositions, open); err != nil {
		return err
	}
	return s.Save(KeyClosedPositions, closed)
}

// LoadSnapshot reads persisted ledger state, substituting defaultBalance
// and empty collections for keys that were never saved.
func LoadSnapshot(s Store, defaultBalance float64) (ledger.Snapshot, error) {
	snap := ledger.Snapshot{Balance: defaultBalance}

	if raw, err := s.Load(KeyBalance); err == nil {
		if err := json.Unmarshal(raw, &snap.Balance); err != nil {
			return ledger.Snapshot{}, err
		}
	} else if err != ErrNoValue {
		return ledger.Snapshot{}, err
	}

	if raw, err := s.Load(KeyOpenPositions); err == nil {
		if err := json.Unmarshal(raw, &snap.Open); err != nil {
			return ledger.Snapshot{}, err
		}
	} else if err != ErrNoValue {
		return ledger.Snapshot{}, err
	}

	if raw, err := s.Load(KeyClosedPositions); err == nil {
		if err := json.Unmarshal(raw, &snap.Closed); err != nil {
			return ledger.Snapshot{}, err
		}
	} else if err != ErrNoValue {
		return ledger.Snapshot{}, err
	}

	return snap, nil
}
