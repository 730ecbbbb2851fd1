// Package store is the durable key-value state store that carries the
// balance and position collections across process restarts.
package store

import "errors"

// ErrNoValue is returned by Load when a key has never been saved; callers
// fall back to their configured default.
var ErrNoValue = errors.New("no value for key")

// Keys under which ledger state is persisted.
const (
	KeyBalance         = "balance"
	KeyOpenPositions   = "openPositions"
	KeyClosedPositions = "closedPositions"
)

// Store is durable JSON-valued key-value storage. Implementations must be
// safe for concurrent use.
type Store interface {
	Load(key string) ([]byte, error)
	Save(key string, value []byte) error
	Close() error
}
