package datastore

import "errors"

// Sentinel errors for datastore operations.
var (
	// ErrNotExist is returned by a Backend when no document has been written for a collection.
	ErrNotExist = errors.New("collection does not exist")

	// ErrInvalidCollection is returned for collection names outside [a-z0-9_-].
	ErrInvalidCollection = errors.New("invalid collection name")

	// ErrUnknownDriver is returned when STORE_DRIVER names no backend.
	ErrUnknownDriver = errors.New("unknown store driver")

	// ErrNotStarted is returned when the store is used before the plugin has started.
	ErrNotStarted = errors.New("datastore not started")
)
