package cache

import "context"

// Resolver is a key-value store of transformation outputs.
//
// Implementations are safe for concurrent use. Neither method reports
// errors: a lookup that cannot be served is a miss and a store that cannot be
// persisted is dropped.
type Resolver interface {
	// Get returns a copy of the entry for key, or false if there is none.
	Get(ctx context.Context, key Key) ([]byte, bool)

	// Put stores a copy of data under key, replacing any previous entry.
	Put(ctx context.Context, key Key, data []byte)
}

// metricsProvider is implemented by resolvers that expose their Metrics.
type metricsProvider interface {
	Metrics() *Metrics
}

var (
	_ Resolver = (*MemoryResolver)(nil)
	_ Resolver = (*FileResolver)(nil)
)

func cloneBytes(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
