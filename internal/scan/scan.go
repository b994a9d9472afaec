package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/voxsort/internal/arena"
	"github.com/hupe1980/voxsort/internal/resource"
	"github.com/hupe1980/voxsort/morton"
	"github.com/hupe1980/voxsort/partition"
	"github.com/hupe1980/voxsort/volume"
)

const (
	// Threshold is the activity threshold: a voxel is active when its value exceeds it.
	Threshold = 25

	// DefaultInitialCapacity is the initial key capacity in growable mode.
	DefaultInitialCapacity = 1_000_000

	// chunkSize is the number of voxels scanned between cancellation checks.
	chunkSize = 1 << 20
)

var (
	// ErrAllocation is returned when key storage cannot be reserved.
	ErrAllocation = errors.New("scan: allocation failed")
	// ErrConsumed is returned by Take on an already consumed result.
	ErrConsumed = arena.ErrConsumed
)

// FillMode selects how key storage is sized.
type FillMode int

const (
	// FillGrowable grows the key buffer by doubling.
	FillGrowable FillMode = iota
	// FillTwoPass counts active voxels, then allocates exactly.
	FillTwoPass
)

func (m FillMode) String() string {
	switch m {
	case FillGrowable:
		return "growable"
	case FillTwoPass:
		return "two-pass"
	default:
		return fmt.Sprintf("FillMode(%d)", int(m))
	}
}

// ParseFillMode parses "growable" or "two-pass".
func ParseFillMode(s string) (FillMode, error) {
	switch strings.ToLower(s) {
	case "growable", "grow":
		return FillGrowable, nil
	case "two-pass", "twopass", "count":
		return FillTwoPass, nil
	default:
		return 0, fmt.Errorf("scan: unknown fill mode %q", s)
	}
}

// Options configures Process.
type Options struct {
	// Worker identifies the caller in logs and results.
	Worker int
	// Threshold is the activity threshold.
	Threshold byte
	// Fill selects the buffer sizing strategy.
	Fill FillMode
	// InitialCapacity is the starting capacity for FillGrowable.
	// Values <= 0 use DefaultInitialCapacity. It is clamped to the range length.
	InitialCapacity int
	// Memory charges key storage. Nil means unaccounted.
	Memory *resource.Controller
	// Logger receives progress at debug level. Nil disables logging.
	Logger *slog.Logger
	// ProgressInterval is the minimum time between progress logs.
	ProgressInterval time.Duration
}

// DefaultOptions returns the options used by the reference programs.
func DefaultOptions() Options {
	return Options{
		Threshold:        Threshold,
		Fill:             FillGrowable,
		InitialCapacity:  DefaultInitialCapacity,
		ProgressInterval: time.Second,
	}
}

// LocalResult is one worker's sorted keys.
type LocalResult struct {
	Worker int
	Range  partition.Range
	Count  int
	Bounds volume.Bounds

	buf *arena.Buffer
}

// Keys returns a view of the sorted keys. The view is invalid after Take or Release.
func (r *LocalResult) Keys() []morton.Key { return r.buf.Keys() }

// Take hands the keys to the caller. A second call returns ErrConsumed.
// The memory reservation stays charged until Release.
func (r *LocalResult) Take() ([]morton.Key, error) { return r.buf.Take() }

// Reserved returns the bytes charged for this result.
func (r *LocalResult) Reserved() int64 { return r.buf.Reserved() }

// Release returns the memory reservation. It is safe to call more than once.
func (r *LocalResult) Release() {
	if r != nil {
		r.buf.Release()
	}
}

// Process scans rng of vol and returns the sorted keys of its active voxels.
// rng is in global voxel indices and must lie within vol.Range().
func Process(ctx context.Context, vol *volume.Volume, rng partition.Range, opts Options) (*LocalResult, error) {
	data, err := vol.Slice(rng)
	if err != nil {
		return nil, err
	}

	s := &scanner{
		ctx:   ctx,
		dims:  vol.Dims(),
		rng:   rng,
		data:  data,
		opts:  opts,
		limit: rate.NewLimiter(rate.Every(max(opts.ProgressInterval, time.Millisecond)), 1),
	}

	var capacity int
	switch opts.Fill {
	case FillGrowable:
		capacity = opts.InitialCapacity
		if capacity <= 0 {
			capacity = DefaultInitialCapacity
		}
		capacity = min(capacity, rng.Len())
	case FillTwoPass:
		capacity, err = s.count()
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("scan: unknown fill mode %v", opts.Fill)
	}

	buf, err := arena.New(opts.Memory, capacity)
	if err != nil {
		return nil, fmt.Errorf("%w: worker %d: %w", ErrAllocation, opts.Worker, err)
	}

	res := &LocalResult{Worker: opts.Worker, Range: rng, buf: buf}
	if err := s.fill(res); err != nil {
		buf.Release()
		return nil, err
	}

	slices.Sort(buf.Keys())
	res.Count = buf.Len()
	return res, nil
}

type scanner struct {
	ctx   context.Context
	dims  volume.Dims
	rng   partition.Range
	data  []byte
	opts  Options
	limit *rate.Limiter
}

func (s *scanner) chunks(fn func(off int, chunk []byte) error) error {
	for off := 0; off < len(s.data); off += chunkSize {
		if err := s.ctx.Err(); err != nil {
			return err
		}
		end := min(off+chunkSize, len(s.data))
		if err := fn(off, s.data[off:end]); err != nil {
			return err
		}
		s.progress(end)
	}
	return nil
}

func (s *scanner) count() (int, error) {
	n := 0
	thr := s.opts.Threshold
	err := s.chunks(func(_ int, chunk []byte) error {
		for _, v := range chunk {
			if v > thr {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (s *scanner) fill(res *LocalResult) error {
	thr := s.opts.Threshold
	return s.chunks(func(off int, chunk []byte) error {
		base := s.rng.Start + off
		for i, v := range chunk {
			if v <= thr {
				continue
			}
			x, y, z := s.dims.Coords(base + i)
			res.Bounds.Add(x, y, z)
			if err := res.buf.Append(morton.Encode(uint32(x), uint32(y), uint32(z))); err != nil {
				return fmt.Errorf("%w: worker %d: %w", ErrAllocation, s.opts.Worker, err)
			}
		}
		return nil
	})
}

func (s *scanner) progress(done int) {
	if s.opts.Logger == nil || !s.limit.Allow() {
		return
	}
	s.opts.Logger.Debug("scan progress",
		slog.Int("worker", s.opts.Worker),
		slog.Int("scanned", done),
		slog.Int("total", len(s.data)),
	)
}
