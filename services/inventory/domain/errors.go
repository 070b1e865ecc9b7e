package domain

import "errors"

// Sentinel errors for the inventory domain. Use errors.Is() to check these.
var (
	// ErrItemNotFound indicates the requested item does not exist.
	// Absence is a normal outcome, not a failure of the system.
	ErrItemNotFound = errors.New("item not found")

	// ErrInvalidItemName indicates the item name violates domain constraints.
	ErrInvalidItemName = errors.New("invalid item name")

	// ErrRepository indicates the record store failed (I/O, constraint, connection).
	// Distinct from ErrItemNotFound: absence is never wrapped in ErrRepository.
	ErrRepository = errors.New("repository failure")

	// ErrStorage indicates a blob filesystem operation failed.
	ErrStorage = errors.New("blob storage failure")
)
