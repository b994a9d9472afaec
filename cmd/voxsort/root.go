package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/spf13/cobra"

	"github.com/hupe1980/voxsort"
	"github.com/hupe1980/voxsort/codec"
	"github.com/hupe1980/voxsort/runlog"
	"github.com/hupe1980/voxsort/volume"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	input       string
	dims        string
	logLevel    string
	logFormat   string
	runlogTable string
	dataset     string
	jsonCodec   string
}

// runFlags belong to one strategy subcommand.
type runFlags struct {
	*globalFlags

	output          string
	noSave          bool
	jsonOut         bool
	aggregator      string
	fill            string
	memoryLimit     int64
	ioLimit         int64
	initialCapacity int

	compressWire bool
	loadMode     string
}

func newRootCmd() *cobra.Command {
	f := &globalFlags{}

	root := &cobra.Command{
		Use:           "voxsort",
		Short:         "Extract and sort the Morton keys of active voxels",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.input, "input", "c8.raw", "volume location: path, s3://bucket/key or minio://host/bucket/key")
	pf.StringVar(&f.dims, "dims", volume.DefaultDims.String(), "volume dimensions XxYxZ")
	pf.StringVar(&f.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	pf.StringVar(&f.logFormat, "log-format", "text", "log format: text or json")
	pf.StringVar(&f.runlogTable, "runlog-table", "", "DynamoDB table recording run summaries")
	pf.StringVar(&f.dataset, "dataset", "", "dataset name in the run log (default: --input)")
	pf.StringVar(&f.jsonCodec, "json-codec", codec.Default.Name(), "JSON encoder for --json and history: "+strings.Join(codec.Names, " or "))

	root.AddCommand(
		newRunCmd(f, voxsort.Sequential),
		newRunCmd(f, voxsort.Threaded),
		newRunCmd(f, voxsort.Distributed),
		newGenCmd(f),
		newHistoryCmd(f),
	)
	return root
}

func newRunCmd(g *globalFlags, s voxsort.Strategy) *cobra.Command {
	f := &runFlags{globalFlags: g}
	cmd := &cobra.Command{
		RunE: func(cmd *cobra.Command, args []string) error {
			workers := 1
			if s != voxsort.Sequential {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("invalid number of %s %q", unit(s), args[0])
				}
				workers = n
			}
			return runStrategy(cmd, f, s, workers)
		},
	}

	switch s {
	case voxsort.Sequential:
		cmd.Use = "seq"
		cmd.Short = "Scan the volume with a single worker"
		cmd.Args = cobra.NoArgs
	case voxsort.Threaded:
		cmd.Use = "threads N"
		cmd.Short = "Scan the volume with N goroutine workers"
		cmd.Args = cobra.ExactArgs(1)
	case voxsort.Distributed:
		cmd.Use = "dist N"
		cmd.Short = "Scan the volume across N ranks that each load only their slice"
		cmd.Args = cobra.ExactArgs(1)
		cmd.Flags().BoolVar(&f.compressWire, "compress-wire", false, "lz4-compress key payloads between ranks")
		cmd.Flags().StringVar(&f.loadMode, "load-mode", voxsort.LoadOffsetRead.String(), "how ranks load their slice: offset or scatter")
	}

	fl := cmd.Flags()
	fl.StringVar(&f.output, "output", s.DefaultOutput(), "key list location; .zst, .gz or .lz4 compresses")
	fl.BoolVar(&f.noSave, "no-save", false, "do not write the key list")
	fl.BoolVar(&f.jsonOut, "json", false, "print the summary as JSON")
	fl.StringVar(&f.fill, "fill", voxsort.FillGrowable.String(), "buffer sizing: growable or two-pass")
	fl.Int64Var(&f.memoryLimit, "memory-limit", 0, "cap on key buffer bytes across all workers (0 = unlimited)")
	fl.Int64Var(&f.ioLimit, "io-limit", 0, "volume read throttle in bytes per second (0 = unlimited)")
	fl.IntVar(&f.initialCapacity, "initial-capacity", 0, "initial keys per growable buffer (0 = default)")
	if s != voxsort.Sequential {
		fl.StringVar(&f.aggregator, "aggregator", "", "list aggregation: concat, merge or heap")
	}
	return cmd
}

func unit(s voxsort.Strategy) string {
	if s == voxsort.Distributed {
		return "processes"
	}
	return "threads"
}

func runStrategy(cmd *cobra.Command, f *runFlags, s voxsort.Strategy, workers int) error {
	ctx := cmd.Context()
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	dims, err := volume.ParseDims(f.dims)
	if err != nil {
		return err
	}
	in, err := resolve(ctx, f.input)
	if err != nil {
		return err
	}

	jc, err := f.codec()
	if err != nil {
		return err
	}
	opts, err := f.options(ctx, workers)
	if err != nil {
		return err
	}
	if !f.noSave {
		out, err := resolve(ctx, f.output)
		if err != nil {
			return err
		}
		opts = append(opts, voxsort.WithOutput(out.store, out.name))
	}

	res, err := voxsort.Run(ctx, s, voxsort.Input{Store: in.store, Name: in.name, Dims: dims}, opts...)
	var pe *voxsort.PersistError
	switch {
	case errors.As(err, &pe):
		fmt.Fprintln(stderr, "Error: Failed to open output file for writing.")
	case err != nil:
		return err
	}

	if !res.Verdict.Sorted {
		fmt.Fprintf(stderr, "Array is not sorted at index %d\n", res.Verdict.Index)
	}

	sum := res.Summary()
	if f.jsonOut {
		return sum.JSON(stdout, jc)
	}
	return sum.Render(stdout)
}

func (f *globalFlags) logger() (*voxsort.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(f.logLevel)); err != nil {
		return nil, err
	}
	switch f.logFormat {
	case "text":
		return voxsort.NewTextLogger(level), nil
	case "json":
		return voxsort.NewJSONLogger(level), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", f.logFormat)
	}
}

func (f *globalFlags) codec() (codec.Codec, error) {
	c, ok := codec.ByName(f.jsonCodec)
	if !ok {
		return nil, fmt.Errorf("unknown JSON codec %q", f.jsonCodec)
	}
	return c, nil
}

func (f *globalFlags) recorder(ctx context.Context) (runlog.Recorder, error) {
	if f.runlogTable == "" {
		return nil, nil
	}
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return runlog.NewDynamoRecorder(dynamodb.NewFromConfig(cfg), f.runlogTable), nil
}

func (f *globalFlags) datasetName() string {
	if f.dataset != "" {
		return f.dataset
	}
	return f.input
}

func (f *runFlags) options(ctx context.Context, workers int) ([]voxsort.Option, error) {
	logger, err := f.logger()
	if err != nil {
		return nil, err
	}
	fill, err := voxsort.ParseFillMode(f.fill)
	if err != nil {
		return nil, err
	}

	opts := []voxsort.Option{
		voxsort.WithWorkers(workers),
		voxsort.WithLogger(logger),
		voxsort.WithFill(fill),
		voxsort.WithMemoryLimit(f.memoryLimit),
		voxsort.WithIOLimit(f.ioLimit),
		voxsort.WithWireCompression(f.compressWire),
	}
	if f.aggregator != "" {
		opts = append(opts, voxsort.WithAggregator(f.aggregator))
	}
	if f.initialCapacity > 0 {
		opts = append(opts, voxsort.WithInitialCapacity(f.initialCapacity))
	}
	if f.loadMode != "" {
		mode, err := voxsort.ParseLoadMode(f.loadMode)
		if err != nil {
			return nil, err
		}
		opts = append(opts, voxsort.WithLoadMode(mode))
	}

	rec, err := f.recorder(ctx)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		opts = append(opts, voxsort.WithRunLog(rec, f.datasetName()))
	}
	return opts, nil
}
