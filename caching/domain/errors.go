package domain

import "errors"

var (
	// ErrUnavailable wraps every backing store failure absorbed by the cache layer.
	ErrUnavailable = errors.New("cache unavailable")

	// ErrWrongType is returned when a key holds a different kind of value.
	ErrWrongType = errors.New("operation against a key holding the wrong kind of value")

	// ErrEntryVersion is returned when a stored entry uses an unknown wire version.
	ErrEntryVersion = errors.New("unsupported cache entry version")

	// ErrCorruptEntry is returned when a stored entry cannot be decoded.
	ErrCorruptEntry = errors.New("corrupt cache entry")
)
