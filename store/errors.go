package store

import "errors"

var (
	// ErrNotFound is returned by Read for a slot that holds no blob.
	ErrNotFound = errors.New("record not found")
)
