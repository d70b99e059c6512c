package internalerr

import "errors"

// Sentinel errors for the run taxonomy
var (
	ErrFetch            = errors.New("fetch failed")
	ErrExtraction       = errors.New("topic extraction failed")
	ErrPersistenceRead  = errors.New("topic store unreadable")
	ErrPersistenceWrite = errors.New("topic store unwritable")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrInvalidInput     = errors.New("invalid input")
)
