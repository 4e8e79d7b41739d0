package cache

import "errors"

// Sentinel errors for store operations.
var (
	ErrInvalidSection = errors.New("cache: section is invalid")
	ErrInvalidKey     = errors.New("cache: key is invalid")
	ErrInvalidName    = errors.New("cache: name is blank or contains a line break")
	ErrNameTooLong    = errors.New("cache: name exceeds max length")
	ErrEncode         = errors.New("cache: failed to encode value")
	ErrDecode         = errors.New("cache: failed to decode value")
	ErrValueTooLarge  = errors.New("cache: encoded value exceeds max size")
	ErrClosed         = errors.New("cache: store is closed")
	ErrNoProvider     = errors.New("cache: no state provider in context")
	ErrInvalidConfig  = errors.New("cache: invalid config")
)
