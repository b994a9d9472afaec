package cluster

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/voxsort/partition"
)

// Option configures a World.
type Option func(*World)

// WithCompression enables lz4 compression of Gatherv payloads.
func WithCompression(enabled bool) Option {
	return func(w *World) { w.compress = enabled }
}

// WithLogger sets the logger for collective diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(w *World) { w.logger = l }
}

type message struct {
	n    int
	data []byte
}

// World is an in-process group of ranks.
type World struct {
	size     int
	compress bool
	logger   *slog.Logger

	// links[src][dst] carries messages from src to dst in FIFO order.
	links [][]chan message

	done      chan struct{}
	abortOnce sync.Once
	abortErr  *AbortError

	ran       atomic.Bool
	wireBytes atomic.Int64
}

// NewWorld creates a world of size ranks.
func NewWorld(size int, opts ...Option) (*World, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	w := &World{
		size:   size,
		logger: slog.New(slog.DiscardHandler),
		done:   make(chan struct{}),
		links:  make([][]chan message, size),
	}
	for _, opt := range opts {
		opt(w)
	}
	for src := range w.links {
		w.links[src] = make([]chan message, size)
		for dst := range w.links[src] {
			if src != dst {
				w.links[src][dst] = make(chan message, 1)
			}
		}
	}
	return w, nil
}

// Size returns the number of ranks.
func (w *World) Size() int { return w.size }

// WireBytes returns the number of payload bytes sent between ranks.
func (w *World) WireBytes() int64 { return w.wireBytes.Load() }

// Run starts every rank with fn and waits for all of them.
// A rank returning an error aborts the world; Run then returns that error.
// A World can run only once.
func (w *World) Run(ctx context.Context, fn func(ctx context.Context, c Comm) error) error {
	if !w.ran.CompareAndSwap(false, true) {
		return fmt.Errorf("cluster: world already ran")
	}

	g, gctx := errgroup.WithContext(ctx)
	for rank := range w.size {
		c := &comm{w: w, rank: rank}
		g.Go(func() error {
			if err := fn(gctx, c); err != nil {
				c.Abort(err)
				return err
			}
			return nil
		})
	}

	err := g.Wait()
	if cause := w.cause(); cause != nil {
		return cause.Err
	}
	return err
}

func (w *World) abort(rank int, err error) {
	w.abortOnce.Do(func() {
		w.abortErr = &AbortError{Rank: rank, Err: err}
		w.logger.Warn("cluster aborted", slog.Int("rank", rank), slog.Any("error", err))
		close(w.done)
	})
}

func (w *World) cause() *AbortError {
	select {
	case <-w.done:
		return w.abortErr
	default:
		return nil
	}
}

func (w *World) send(ctx context.Context, src, dst int, m message) error {
	select {
	case <-w.done:
		return w.abortErr
	default:
	}
	select {
	case w.links[src][dst] <- m:
		w.wireBytes.Add(int64(len(m.data)))
		return nil
	case <-w.done:
		return w.abortErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *World) recv(ctx context.Context, src, dst int) (message, error) {
	select {
	case <-w.done:
		return message{}, w.abortErr
	default:
	}
	select {
	case m := <-w.links[src][dst]:
		return m, nil
	case <-w.done:
		return message{}, w.abortErr
	case <-ctx.Done():
		return message{}, ctx.Err()
	}
}

type comm struct {
	w    *World
	rank int
}

func (c *comm) Rank() int { return c.rank }

func (c *comm) Size() int { return c.w.size }

func (c *comm) Abort(err error) { c.w.abort(c.rank, err) }

func (c *comm) checkRoot(root int) error {
	if root < 0 || root >= c.w.size {
		return fmt.Errorf("%w: %d", ErrInvalidRoot, root)
	}
	return nil
}

func (c *comm) Barrier(ctx context.Context) error {
	const root = 0
	if c.rank != root {
		if err := c.w.send(ctx, c.rank, root, message{}); err != nil {
			return err
		}
		_, err := c.w.recv(ctx, root, c.rank)
		return err
	}
	for src := range c.w.size {
		if src == root {
			continue
		}
		if _, err := c.w.recv(ctx, src, root); err != nil {
			return err
		}
	}
	for dst := range c.w.size {
		if dst == root {
			continue
		}
		if err := c.w.send(ctx, root, dst, message{}); err != nil {
			return err
		}
	}
	return nil
}

func (c *comm) Gather(ctx context.Context, root int, count int) ([]int, error) {
	if err := c.checkRoot(root); err != nil {
		return nil, err
	}
	if count < 0 || int64(count) > MaxCount {
		return nil, &partition.OverflowError{Worker: c.rank, Field: "count", Value: int64(count), Limit: MaxCount}
	}

	if c.rank != root {
		return nil, c.w.send(ctx, c.rank, root, message{n: count})
	}

	counts := make([]int, c.w.size)
	for src := range c.w.size {
		if src == root {
			counts[src] = count
			continue
		}
		m, err := c.w.recv(ctx, src, root)
		if err != nil {
			return nil, err
		}
		counts[src] = m.n
	}
	return counts, nil
}

func (c *comm) Gatherv(ctx context.Context, root int, keys []uint32) ([][]uint32, error) {
	if err := c.checkRoot(root); err != nil {
		return nil, err
	}

	if c.rank != root {
		frame, err := encodeKeys(keys, c.w.compress)
		if err != nil {
			return nil, err
		}
		return nil, c.w.send(ctx, c.rank, root, message{n: len(keys), data: frame})
	}

	lists := make([][]uint32, c.w.size)
	total := 0
	for src := range c.w.size {
		if src == root {
			lists[src] = keys
		} else {
			m, err := c.w.recv(ctx, src, root)
			if err != nil {
				return nil, err
			}
			list, err := decodeKeys(m.data)
			if err != nil {
				return nil, fmt.Errorf("cluster: gatherv from rank %d: %w", src, err)
			}
			lists[src] = list
		}
		// Displacements must fit the wire width too.
		if int64(total) > MaxCount {
			return nil, &partition.OverflowError{Worker: src, Field: "displacement", Value: int64(total), Limit: MaxCount}
		}
		total += len(lists[src])
	}

	c.w.logger.Debug("gatherv complete",
		slog.Int("root", root),
		slog.Int("keys", total),
		slog.Int64("wire_bytes", c.w.WireBytes()),
	)
	return lists, nil
}

func (c *comm) Scatterv(ctx context.Context, root int, data []byte, counts, displs []int) ([]byte, error) {
	if err := c.checkRoot(root); err != nil {
		return nil, err
	}

	if c.rank != root {
		m, err := c.w.recv(ctx, root, c.rank)
		if err != nil {
			return nil, err
		}
		return m.data, nil
	}

	if len(counts) != c.w.size || len(displs) != c.w.size {
		return nil, fmt.Errorf("cluster: scatterv needs %d counts and displacements, got %d and %d",
			c.w.size, len(counts), len(displs))
	}
	for i := range counts {
		if int64(counts[i]) > MaxCount || int64(displs[i]) > MaxCount {
			return nil, &partition.OverflowError{Worker: i, Field: "scatter", Value: int64(max(counts[i], displs[i])), Limit: MaxCount}
		}
		if displs[i] < 0 || counts[i] < 0 || displs[i]+counts[i] > len(data) {
			return nil, fmt.Errorf("cluster: scatterv segment %d out of range", i)
		}
	}

	for dst := range c.w.size {
		if dst == root {
			continue
		}
		seg := slices.Clone(data[displs[dst] : displs[dst]+counts[dst]])
		if err := c.w.send(ctx, root, dst, message{n: counts[dst], data: seg}); err != nil {
			return nil, err
		}
	}
	return slices.Clone(data[displs[root] : displs[root]+counts[root]]), nil
}
