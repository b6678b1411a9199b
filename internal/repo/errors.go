package repo

import "errors"

var (
	// ErrNotFound means no record matched the lookup.
	ErrNotFound = errors.New("submission not found")

	// ErrConflict means a unique index rejected the write (reference,
	// dedupe key or unsubscribe token collision).
	ErrConflict = errors.New("submission conflicts with an existing record")
)
