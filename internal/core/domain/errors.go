package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrSourceUnavailable indicates the dataset fetch failed at the
	// transport level (connection error or non-success status).
	ErrSourceUnavailable = errors.New("dataset source unavailable")

	// ErrStreamUnreadable indicates the dataset response body could not
	// be consumed incrementally.
	ErrStreamUnreadable = errors.New("dataset stream unreadable")

	// ErrStoreNotLoaded indicates a query was attempted before a
	// successful dataset load. No query is issued in this state.
	ErrStoreNotLoaded = errors.New("variant store not loaded")

	// ErrAlreadyLoaded indicates a second load was attempted.
	// The dataset is loaded exactly once per process.
	ErrAlreadyLoaded = errors.New("variant store already loaded")

	// ErrQueryFailed indicates a query errored at the engine level.
	ErrQueryFailed = errors.New("query execution failed")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")
)
