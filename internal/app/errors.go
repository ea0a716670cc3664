package service

import "errors"

// Sentinel kinds for service errors. These allow errors.Is/As from callers.
var (
	// ErrNotConfigured reports missing store or source wiring at Start.
	ErrNotConfigured = errors.New("service missing store or ticket source")

	// ErrSyncInFlight rejects a sync trigger while another run is active.
	ErrSyncInFlight = errors.New("sync already in flight")
)
