package repository

import "errors"

// Sentinel kinds for store errors. These allow errors.Is/As from callers.
var (
	ErrNotFound = errors.New("record not found")
	ErrStore    = errors.New("store operation failed")
)
