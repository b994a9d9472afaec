package voxsort

import (
	"log/slog"
	"time"

	"github.com/hupe1980/voxsort/blobstore"
	"github.com/hupe1980/voxsort/internal/scan"
	"github.com/hupe1980/voxsort/runlog"
)

// FillMode selects how per-worker key storage is sized.
type FillMode = scan.FillMode

const (
	// FillGrowable grows the key buffer by doubling from an initial capacity.
	FillGrowable = scan.FillGrowable
	// FillTwoPass counts active voxels first and allocates exactly once.
	FillTwoPass = scan.FillTwoPass
)

// ParseFillMode parses "growable" or "two-pass".
func ParseFillMode(s string) (FillMode, error) { return scan.ParseFillMode(s) }

type options struct {
	workers          int
	aggregator       string
	fill             FillMode
	memoryLimit      int64
	ioLimit          int64
	threshold        byte
	initialCapacity  int
	wireCompression  bool
	loadMode         LoadMode
	metricsCollector MetricsCollector
	logger           *Logger
	progressInterval time.Duration

	outputStore blobstore.Store
	outputName  string

	runLog  runlog.Recorder
	dataset string
}

// Option configures a run.
type Option func(*options)

// WithWorkers sets the number of threads or ranks. Sequential runs ignore it.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithAggregator selects how per-worker lists are combined: "concat",
// "merge" or "heap". The default is "concat" for threaded runs and "merge"
// for distributed runs.
func WithAggregator(name string) Option {
	return func(o *options) {
		o.aggregator = name
	}
}

// WithFill selects the buffer sizing strategy of the local scan.
func WithFill(m FillMode) Option {
	return func(o *options) {
		o.fill = m
	}
}

// WithMemoryLimit caps the bytes reserved for key buffers across all workers.
// Exceeding it fails the run with ErrAllocation. 0 means unlimited.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithIOLimit throttles volume loads to bytesPerSec. 0 means unlimited.
func WithIOLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.ioLimit = bytesPerSec
	}
}

// WithThreshold overrides the activity threshold. Intended for tests.
func WithThreshold(t byte) Option {
	return func(o *options) {
		o.threshold = t
	}
}

// WithInitialCapacity sets the initial key capacity of growable buffers.
func WithInitialCapacity(n int) Option {
	return func(o *options) {
		o.initialCapacity = n
	}
}

// WithWireCompression enables lz4 compression of key payloads between ranks.
func WithWireCompression(enabled bool) Option {
	return func(o *options) {
		o.wireCompression = enabled
	}
}

// WithLoadMode selects how distributed ranks obtain their slice of the volume.
func WithLoadMode(m LoadMode) Option {
	return func(o *options) {
		o.loadMode = m
	}
}

// WithOutput writes the final key list to name in store.
// A ".zst", ".gz" or ".lz4" suffix selects a compressed container.
func WithOutput(store blobstore.Store, name string) Option {
	return func(o *options) {
		o.outputStore = store
		o.outputName = name
	}
}

// WithRunLog records every completed run under dataset.
func WithRunLog(rec runlog.Recorder, dataset string) Option {
	return func(o *options) {
		o.runLog = rec
		o.dataset = dataset
	}
}

// WithMetricsCollector configures a metrics collector for monitoring runs.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &voxsort.BasicMetricsCollector{}
//	res, _ := voxsort.RunThreaded(ctx, vol, voxsort.WithWorkers(8), voxsort.WithMetricsCollector(metrics))
//	stats := metrics.GetStats()
//	fmt.Printf("Workers: %d, Avg scan: %dns\n", stats.WorkerCount, stats.WorkerAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for runs.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := voxsort.NewJSONLogger(slog.LevelInfo)
//	res, _ := voxsort.RunSequential(ctx, vol, voxsort.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		workers:          1,
		fill:             FillGrowable,
		threshold:        scan.Threshold,
		initialCapacity:  scan.DefaultInitialCapacity,
		loadMode:         LoadOffsetRead,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		progressInterval: time.Second,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
