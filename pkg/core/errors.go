package core

import "errors"

// Common errors.
var (
	ErrEmptyNote             = errors.New("could not save empty note")
	ErrNotFound              = errors.New("note not found")
	ErrCapabilityUnavailable = errors.New("capability unavailable")
	ErrSessionActive         = errors.New("a transcription session is already active")
	ErrNotWatchable          = errors.New("storage does not support watching")
	ErrReadOnly              = errors.New("storage is in read-only mode")
)
