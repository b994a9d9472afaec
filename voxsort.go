package voxsort

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/voxsort/aggregate"
	"github.com/hupe1980/voxsort/blobstore"
	"github.com/hupe1980/voxsort/cluster"
	"github.com/hupe1980/voxsort/internal/resource"
	"github.com/hupe1980/voxsort/internal/scan"
	"github.com/hupe1980/voxsort/keylist"
	"github.com/hupe1980/voxsort/morton"
	"github.com/hupe1980/voxsort/partition"
	"github.com/hupe1980/voxsort/runlog"
	"github.com/hupe1980/voxsort/verify"
	"github.com/hupe1980/voxsort/volume"
)

// Input names a volume in a blob store.
type Input struct {
	Store blobstore.Store
	Name  string
	Dims  volume.Dims
}

// Result is the globally sorted outcome of a run.
type Result struct {
	RunID    string
	Strategy Strategy
	Workers  int

	// Keys are the Morton keys of every active voxel, ascending.
	Keys    []morton.Key
	Verdict verify.Verdict
	Bounds  volume.Bounds

	// Elapsed covers local processing and aggregation. Loading is excluded.
	Elapsed time.Duration
	// PeakMemory is the high-water mark of reserved key storage in bytes.
	PeakMemory int64
	// Output is the name the key list was written to, empty if not written.
	Output string
}

// Run loads in and runs strategy s over it.
//
// The returned error is a *PersistError when only writing the key list
// failed; the Result is valid in that case.
func Run(ctx context.Context, s Strategy, in Input, optFns ...Option) (*Result, error) {
	switch s {
	case Sequential, Threaded:
		o := applyOptions(optFns)
		if err := validate(s, &o); err != nil {
			return nil, err
		}
		vol, err := load(ctx, in, o)
		if err != nil {
			return nil, err
		}
		defer func() { _ = vol.Close() }()

		if s == Sequential {
			return RunSequential(ctx, vol, optFns...)
		}
		return RunThreaded(ctx, vol, optFns...)
	case Distributed:
		return RunDistributed(ctx, in, optFns...)
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidStrategy, s)
	}
}

func load(ctx context.Context, in Input, o options) (*volume.Volume, error) {
	start := time.Now()
	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: o.ioLimit})
	vol, err := volume.Load(ctx, in.Store, in.Name, in.Dims, volume.LoadOptions{
		Resource: rc,
		Logger:   o.logger.Logger,
	})
	d := time.Since(start)
	o.metricsCollector.RecordLoad(in.Dims.Total(), d, err)
	o.logger.LogLoad(ctx, in.Name, in.Dims.Total(), d, err)
	return vol, err
}

type pipeline struct {
	strategy Strategy
	o        options
	rc       *resource.Controller
	log      *Logger
	started  time.Time
	runID    string
}

// validate rejects a configuration before any work is done and fills in
// strategy dependent defaults.
func validate(s Strategy, o *options) error {
	if s == Sequential {
		o.workers = 1
	}
	if o.workers < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, o.workers)
	}
	if o.aggregator == "" {
		o.aggregator = "concat"
		if s == Distributed {
			o.aggregator = "merge"
		}
	}
	if _, err := aggregate.ByName(o.aggregator, nil); err != nil {
		return err
	}
	return nil
}

func newPipeline(s Strategy, optFns []Option) (*pipeline, error) {
	o := applyOptions(optFns)
	if err := validate(s, &o); err != nil {
		return nil, err
	}

	started := time.Now()
	runID := fmt.Sprintf("%s-%s", started.UTC().Format("20060102T150405.000000000Z"), s)
	return &pipeline{
		strategy: s,
		o:        o,
		rc:       resource.NewController(resource.Config{MemoryLimitBytes: o.memoryLimit, IOLimitBytesPerSec: o.ioLimit}),
		log:      o.logger.WithStrategy(s).WithRunID(runID),
		started:  started,
		runID:    runID,
	}, nil
}

func (p *pipeline) scanOptions(worker int) scan.Options {
	return scan.Options{
		Worker:           worker,
		Threshold:        p.o.threshold,
		Fill:             p.o.fill,
		InitialCapacity:  p.o.initialCapacity,
		Memory:           p.rc,
		Logger:           p.log.Logger,
		ProgressInterval: p.o.progressInterval,
	}
}

func (p *pipeline) process(ctx context.Context, vol *volume.Volume, worker int, rng partition.Range) (*scan.LocalResult, error) {
	start := time.Now()
	res, err := scan.Process(ctx, vol, rng, p.scanOptions(worker))
	d := time.Since(start)

	keys := 0
	if res != nil {
		keys = res.Count
	}
	p.o.metricsCollector.RecordWorker(worker, keys, d, err)
	p.log.LogWorker(ctx, worker, keys, d, err)
	return res, err
}

func (p *pipeline) aggregate(ctx context.Context, lists [][]morton.Key) ([]morton.Key, error) {
	agg, err := aggregate.ByName(p.o.aggregator, p.rc)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	out, err := agg.Aggregate(ctx, lists)
	d := time.Since(start)
	p.o.metricsCollector.RecordAggregate(len(out), d, err)
	p.log.LogAggregate(ctx, agg.Name(), len(lists), len(out), d, err)
	return out, err
}

// finish verifies, persists and records a result. Only persistence failures
// are returned, as *PersistError.
func (p *pipeline) finish(ctx context.Context, res *Result) (*Result, error) {
	res.RunID = p.runID
	res.Strategy = p.strategy
	res.Workers = p.o.workers
	res.PeakMemory = p.rc.PeakMemoryUsage()

	start := time.Now()
	res.Verdict = verify.Check(res.Keys)
	p.o.metricsCollector.RecordVerify(res.Verdict.Sorted, time.Since(start))
	p.log.LogVerify(ctx, res.Verdict.Sorted, res.Verdict.Index)

	var persistErr *PersistError
	if p.o.outputStore != nil && p.o.outputName != "" {
		start = time.Now()
		err := keylist.Save(ctx, p.o.outputStore, p.o.outputName, res.Keys)
		p.o.metricsCollector.RecordPersist(len(res.Keys), time.Since(start), err)
		p.log.LogPersist(ctx, p.o.outputName, len(res.Keys), err)
		if err != nil {
			persistErr = &PersistError{Name: p.o.outputName, cause: err}
		} else {
			res.Output = p.o.outputName
		}
	}

	if p.o.runLog != nil {
		rec := runlog.Record{
			RunID:     p.runID,
			Dataset:   p.o.dataset,
			Strategy:  p.strategy.String(),
			Workers:   res.Workers,
			Fill:      p.o.fill.String(),
			Active:    len(res.Keys),
			Sorted:    res.Verdict.Sorted,
			Output:    res.Output,
			Elapsed:   res.Elapsed,
			StartedAt: p.started,
		}
		if p.strategy != Sequential {
			rec.Aggregator = p.o.aggregator
		}
		if err := p.o.runLog.Record(ctx, rec); err != nil {
			p.log.WarnContext(ctx, "failed to record run", "error", err)
		}
	}

	if persistErr != nil {
		return res, persistErr
	}
	return res, nil
}

func checkFull(vol *volume.Volume) error {
	if vol.Base() != 0 || len(vol.Data()) != vol.Dims().Total() {
		return fmt.Errorf("%w: holds %s of %d voxels", ErrPartialVolume, vol.Range(), vol.Dims().Total())
	}
	return nil
}

// RunSequential scans the whole volume with a single worker.
func RunSequential(ctx context.Context, vol *volume.Volume, optFns ...Option) (*Result, error) {
	p, err := newPipeline(Sequential, optFns)
	if err != nil {
		return nil, err
	}
	if err := checkFull(vol); err != nil {
		return nil, err
	}

	start := time.Now()
	local, err := p.process(ctx, vol, 0, vol.Range())
	if err != nil {
		return nil, translateError(err)
	}
	defer local.Release()

	keys, err := local.Take()
	if err != nil {
		return nil, err
	}

	return p.finish(ctx, &Result{
		Keys:    keys,
		Bounds:  local.Bounds,
		Elapsed: time.Since(start),
	})
}

// RunThreaded splits the volume across WithWorkers goroutines, then
// aggregates their sorted lists. A failing worker cancels its siblings.
func RunThreaded(ctx context.Context, vol *volume.Volume, optFns ...Option) (*Result, error) {
	p, err := newPipeline(Threaded, optFns)
	if err != nil {
		return nil, err
	}
	if err := checkFull(vol); err != nil {
		return nil, err
	}
	plan, err := partition.Split(vol.Dims().Total(), p.o.workers)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	locals := make([]*scan.LocalResult, len(plan))
	defer func() {
		for _, l := range locals {
			l.Release()
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	for i, rng := range plan {
		g.Go(func() error {
			res, err := p.process(gctx, vol, i, rng)
			if err != nil {
				return err
			}
			locals[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, translateError(err)
	}

	lists := make([][]morton.Key, len(locals))
	var bounds volume.Bounds
	for i, l := range locals {
		keys, err := l.Take()
		if err != nil {
			return nil, err
		}
		lists[i] = keys
		bounds = bounds.Merge(l.Bounds)
	}

	keys, err := p.aggregate(ctx, lists)
	if err != nil {
		return nil, translateError(err)
	}

	return p.finish(ctx, &Result{
		Keys:    keys,
		Bounds:  bounds,
		Elapsed: time.Since(start),
	})
}

// RunDistributed runs WithWorkers ranks. Each rank loads only its slice of
// the volume, per WithLoadMode, and the root rank gathers, merges and
// verifies. Any rank failing aborts every rank.
func RunDistributed(ctx context.Context, in Input, optFns ...Option) (*Result, error) {
	p, err := newPipeline(Distributed, optFns)
	if err != nil {
		return nil, err
	}
	if err := in.Dims.Validate(); err != nil {
		return nil, err
	}

	plan, err := partition.Split(in.Dims.Total(), p.o.workers)
	if err != nil {
		return nil, err
	}
	if err := plan.CheckWidth(cluster.MaxCount); err != nil {
		return nil, err
	}

	world, err := cluster.NewWorld(p.o.workers,
		cluster.WithCompression(p.o.wireCompression),
		cluster.WithLogger(p.log.Logger),
	)
	if err != nil {
		return nil, err
	}

	const root = 0
	var res *Result

	err = world.Run(ctx, func(ctx context.Context, c cluster.Comm) error {
		rank := c.Rank()
		rng := plan[rank]

		vol, err := p.loadRank(ctx, c, in, plan)
		if err != nil {
			return err
		}
		defer func() { _ = vol.Close() }()

		if err := c.Barrier(ctx); err != nil {
			return err
		}
		start := time.Now()

		local, err := p.process(ctx, vol, rank, rng)
		if err != nil {
			return err
		}
		defer local.Release()

		keys, err := local.Take()
		if err != nil {
			return err
		}

		counts, err := c.Gather(ctx, root, len(keys))
		if err != nil {
			return err
		}
		lists, err := c.Gatherv(ctx, root, keys)
		if err != nil {
			return err
		}
		if rank != root {
			return nil
		}

		for i, l := range lists {
			if len(l) != counts[i] {
				return fmt.Errorf("rank %d sent %d keys, announced %d", i, len(l), counts[i])
			}
		}

		merged, err := p.aggregate(ctx, lists)
		if err != nil {
			return err
		}
		res = &Result{Keys: merged, Elapsed: time.Since(start)}
		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}
	if res == nil {
		return nil, errors.New("root rank produced no result")
	}

	res.Bounds = keyBounds(res.Keys)
	p.log.DebugContext(ctx, "distributed run complete", "wire_bytes", world.WireBytes())
	return p.finish(ctx, res)
}

func (p *pipeline) loadRank(ctx context.Context, c cluster.Comm, in Input, plan partition.Plan) (*volume.Volume, error) {
	const root = 0
	rng := plan[c.Rank()]
	opts := volume.LoadOptions{Resource: p.rc, Logger: p.log.Logger}

	start := time.Now()
	var vol *volume.Volume
	var err error

	switch p.o.loadMode {
	case LoadOffsetRead:
		vol, err = volume.LoadRange(ctx, in.Store, in.Name, in.Dims, rng, opts)
	case LoadScatter:
		var data []byte
		if c.Rank() == root {
			full, lerr := volume.Load(ctx, in.Store, in.Name, in.Dims, opts)
			if lerr != nil {
				return nil, lerr
			}
			defer func() { _ = full.Close() }()
			data = full.Data()
		}
		var part []byte
		part, err = c.Scatterv(ctx, root, data, plan.Counts(), plan.Displs())
		if err == nil {
			vol, err = volume.NewRange(in.Dims, rng, part)
		}
	default:
		err = fmt.Errorf("unknown load mode %v", p.o.loadMode)
	}

	d := time.Since(start)
	p.o.metricsCollector.RecordLoad(rng.Len(), d, err)
	p.log.LogLoad(ctx, in.Name, rng.Len(), d, err)
	return vol, err
}

// keyBounds recovers the active bounding box from the keys themselves, for
// results whose workers' boxes were not gathered.
func keyBounds(keys []morton.Key) volume.Bounds {
	var b volume.Bounds
	for _, k := range keys {
		x, y, z := morton.Decode(k)
		b.Add(int(x), int(y), int(z))
	}
	return b
}
