package cache

import (
	"sync/atomic"
	"time"
)

// Metrics counts cache activity. It is safe for concurrent use; a nil
// *Metrics ignores every record call.
type Metrics struct {
	hits         atomic.Int64
	misses       atomic.Int64
	stores       atomic.Int64
	computations atomic.Int64
	passThroughs atomic.Int64
	readErrors   atomic.Int64
	writeErrors  atomic.Int64
	bytesServed  atomic.Int64
	bytesStored  atomic.Int64

	startTime time.Time
}

// NewMetrics creates a Metrics instance whose uptime starts now.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordHit records a lookup that returned an entry of size bytes.
func (m *Metrics) RecordHit(size int) {
	if m == nil {
		return
	}
	m.hits.Add(1)
	m.bytesServed.Add(int64(size))
}

// RecordMiss records a lookup that found nothing usable.
func (m *Metrics) RecordMiss() {
	if m == nil {
		return
	}
	m.misses.Add(1)
}

// RecordPut records a successful store of size bytes.
func (m *Metrics) RecordPut(size int) {
	if m == nil {
		return
	}
	m.stores.Add(1)
	m.bytesStored.Add(int64(size))
}

// RecordComputation records one invocation of a wrapped transformer.
func (m *Metrics) RecordComputation() {
	if m == nil {
		return
	}
	m.computations.Add(1)
}

// RecordPassThrough records a transformation that produced no output.
func (m *Metrics) RecordPassThrough() {
	if m == nil {
		return
	}
	m.passThroughs.Add(1)
}

// RecordReadError records a read failure that was reported as a miss.
func (m *Metrics) RecordReadError() {
	if m == nil {
		return
	}
	m.readErrors.Add(1)
}

// RecordWriteError records a dropped write.
func (m *Metrics) RecordWriteError() {
	if m == nil {
		return
	}
	m.writeErrors.Add(1)
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Hits         int64
	Misses       int64
	Stores       int64
	Computations int64
	PassThroughs int64
	ReadErrors   int64
	WriteErrors  int64
	BytesServed  int64
	BytesStored  int64

	// HitRate is hits over lookups, between 0 and 1.
	HitRate float64
	Uptime  time.Duration
}

// Snapshot returns the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}

	s := MetricsSnapshot{
		Hits:         m.hits.Load(),
		Misses:       m.misses.Load(),
		Stores:       m.stores.Load(),
		Computations: m.computations.Load(),
		PassThroughs: m.passThroughs.Load(),
		ReadErrors:   m.readErrors.Load(),
		WriteErrors:  m.writeErrors.Load(),
		BytesServed:  m.bytesServed.Load(),
		BytesStored:  m.bytesStored.Load(),
	}
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}
	if !m.startTime.IsZero() {
		s.Uptime = time.Since(m.startTime)
	}
	return s
}
