package cache

import (
	"context"
	"sync"
	"sync/atomic"
)

// MemoryResolver keeps entries in process memory. Entries live until the
// process exits; there is no eviction.
type MemoryResolver struct {
	entries sync.Map // Key.String() -> []byte
	count   atomic.Int64
	logger  *Logger
	metrics *Metrics
}

// NewMemoryResolver creates an empty in-memory resolver.
func NewMemoryResolver(opts ...Option) *MemoryResolver {
	o := applyOptions(opts)
	return &MemoryResolver{
		logger:  o.logger.With("resolver", "memory"),
		metrics: o.metrics,
	}
}

// Get implements Resolver.
func (r *MemoryResolver) Get(ctx context.Context, key Key) ([]byte, bool) {
	if err := key.Validate(); err != nil {
		LogCacheError(ctx, r.logger, OpGet, key, err)
		r.metrics.RecordReadError()
		r.metrics.RecordMiss()
		return nil, false
	}

	v, ok := r.entries.Load(key.String())
	if !ok {
		LogCacheMiss(ctx, r.logger, key, "not found")
		r.metrics.RecordMiss()
		return nil, false
	}

	data := cloneBytes(v.([]byte))
	LogCacheHit(ctx, r.logger, key, len(data))
	r.metrics.RecordHit(len(data))
	return data, true
}

// Put implements Resolver.
func (r *MemoryResolver) Put(ctx context.Context, key Key, data []byte) {
	if err := key.Validate(); err != nil {
		LogCacheError(ctx, r.logger, OpPut, key, err)
		r.metrics.RecordWriteError()
		return
	}

	if _, loaded := r.entries.Swap(key.String(), cloneBytes(data)); !loaded {
		r.count.Add(1)
	}
	r.metrics.RecordPut(len(data))
}

// Len returns the number of stored entries.
func (r *MemoryResolver) Len() int {
	return int(r.count.Load())
}

// Metrics returns the metrics the resolver records into.
func (r *MemoryResolver) Metrics() *Metrics {
	return r.metrics
}
