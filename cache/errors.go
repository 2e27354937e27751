package cache

import "errors"

// ErrInvalidKey is returned when a key cannot be mapped to a cache entry.
var ErrInvalidKey = errors.New("invalid cache key")

// ErrInvalidMode is returned when a mode selector names neither MEMORY nor FILE.
var ErrInvalidMode = errors.New("invalid cache mode")

// ErrClosed is returned when a resolver is used after Close.
var ErrClosed = errors.New("cache is closed")
