package voxsort

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    scanHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordWorker(worker, keys int, duration time.Duration, err error) {
//	    p.scanHistogram.Observe(duration.Seconds())
//	}
type MetricsCollector interface {
	// RecordLoad is called after a volume (or volume range) is loaded.
	RecordLoad(bytes int, duration time.Duration, err error)

	// RecordWorker is called after each worker's local scan and sort.
	RecordWorker(worker, keys int, duration time.Duration, err error)

	// RecordAggregate is called after the per-worker lists are combined.
	RecordAggregate(keys int, duration time.Duration, err error)

	// RecordVerify is called after the global sortedness check.
	RecordVerify(sorted bool, duration time.Duration)

	// RecordPersist is called after the key list is written.
	RecordPersist(keys int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLoad(int, time.Duration, error)        {}
func (NoopMetricsCollector) RecordWorker(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordAggregate(int, time.Duration, error)   {}
func (NoopMetricsCollector) RecordVerify(bool, time.Duration)            {}
func (NoopMetricsCollector) RecordPersist(int, time.Duration, error)     {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	LoadCount        atomic.Int64
	LoadBytes        atomic.Int64
	LoadErrors       atomic.Int64
	WorkerCount      atomic.Int64
	WorkerKeys       atomic.Int64
	WorkerErrors     atomic.Int64
	WorkerTotalNanos atomic.Int64
	AggregateCount   atomic.Int64
	AggregateErrors  atomic.Int64
	AggregateNanos   atomic.Int64
	VerifyCount      atomic.Int64
	UnsortedCount    atomic.Int64
	PersistCount     atomic.Int64
	PersistErrors    atomic.Int64
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(bytes int, duration time.Duration, err error) {
	b.LoadCount.Add(1)
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadBytes.Add(int64(bytes))
}

// RecordWorker implements MetricsCollector.
func (b *BasicMetricsCollector) RecordWorker(worker, keys int, duration time.Duration, err error) {
	b.WorkerCount.Add(1)
	b.WorkerTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.WorkerErrors.Add(1)
		return
	}
	b.WorkerKeys.Add(int64(keys))
}

// RecordAggregate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAggregate(keys int, duration time.Duration, err error) {
	b.AggregateCount.Add(1)
	b.AggregateNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.AggregateErrors.Add(1)
	}
}

// RecordVerify implements MetricsCollector.
func (b *BasicMetricsCollector) RecordVerify(sorted bool, duration time.Duration) {
	b.VerifyCount.Add(1)
	if !sorted {
		b.UnsortedCount.Add(1)
	}
}

// RecordPersist implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPersist(keys int, duration time.Duration, err error) {
	b.PersistCount.Add(1)
	if err != nil {
		b.PersistErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		LoadCount:       b.LoadCount.Load(),
		LoadBytes:       b.LoadBytes.Load(),
		LoadErrors:      b.LoadErrors.Load(),
		WorkerCount:     b.WorkerCount.Load(),
		WorkerKeys:      b.WorkerKeys.Load(),
		WorkerErrors:    b.WorkerErrors.Load(),
		WorkerAvgNanos:  b.getAvgWorkerNanos(),
		AggregateCount:  b.AggregateCount.Load(),
		AggregateErrors: b.AggregateErrors.Load(),
		VerifyCount:     b.VerifyCount.Load(),
		UnsortedCount:   b.UnsortedCount.Load(),
		PersistCount:    b.PersistCount.Load(),
		PersistErrors:   b.PersistErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgWorkerNanos() int64 {
	count := b.WorkerCount.Load()
	if count == 0 {
		return 0
	}
	return b.WorkerTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	LoadCount       int64
	LoadBytes       int64
	LoadErrors      int64
	WorkerCount     int64
	WorkerKeys      int64
	WorkerErrors    int64
	WorkerAvgNanos  int64
	AggregateCount  int64
	AggregateErrors int64
	VerifyCount     int64
	UnsortedCount   int64
	PersistCount    int64
	PersistErrors   int64
}
