package ledger

import "errors"

var (
	// ErrInvalidParameters covers size <= 0, leverage outside [1,20] and
	// unknown market IDs. Rejected before any state mutation.
	ErrInvalidParameters = errors.New("invalid parameters")

	// ErrInsufficientBalance means size exceeded the available balance at
	// open time. Rejected before any state mutation.
	ErrInsufficientBalance = errors.New("insufficient balance")
)
