package core

import "errors"

// Common errors.
var (
	ErrInvalidBackup = errors.New("invalid backup file")
	ErrClosed        = errors.New("store is closed")
	ErrNotWatchable  = errors.New("store does not support watching")
)
