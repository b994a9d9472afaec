package voxsort

import (
	"fmt"
	"io"
	"time"

	"github.com/hupe1980/voxsort/codec"
	"github.com/hupe1980/voxsort/morton"
)

// previewKeys is the number of leading keys shown in a summary.
const previewKeys = 10

// Summary is the console report of a run.
type Summary struct {
	RunID      string        `json:"run_id"`
	Strategy   string        `json:"strategy"`
	Workers    int           `json:"workers"`
	Active     int           `json:"active"`
	Bounds     *BoundsReport `json:"bounds,omitempty"`
	First      []morton.Key  `json:"first"`
	Sorted     bool          `json:"sorted"`
	UnsortedAt int           `json:"unsorted_at,omitempty"`
	Output     string        `json:"output,omitempty"`
	Elapsed    time.Duration `json:"elapsed_ns"`
	PeakMemory int64         `json:"peak_memory_bytes"`
}

// BoundsReport is the active bounding box in a Summary.
type BoundsReport struct {
	MinX int `json:"min_x"`
	MaxX int `json:"max_x"`
	MinY int `json:"min_y"`
	MaxY int `json:"max_y"`
	MinZ int `json:"min_z"`
	MaxZ int `json:"max_z"`
}

// Summary returns the console report of r.
func (r *Result) Summary() Summary {
	s := Summary{
		RunID:      r.RunID,
		Strategy:   r.Strategy.String(),
		Workers:    r.Workers,
		Active:     len(r.Keys),
		First:      append([]morton.Key{}, r.Keys[:min(previewKeys, len(r.Keys))]...),
		Sorted:     r.Verdict.Sorted,
		Output:     r.Output,
		Elapsed:    r.Elapsed,
		PeakMemory: r.PeakMemory,
	}
	if !r.Verdict.Sorted {
		s.UnsortedAt = r.Verdict.Index
	}
	if b := r.Bounds; b.Valid {
		s.Bounds = &BoundsReport{
			MinX: b.MinX, MaxX: b.MaxX,
			MinY: b.MinY, MaxY: b.MaxY,
			MinZ: b.MinZ, MaxZ: b.MaxZ,
		}
	}
	return s
}

// Render writes the human-readable report.
func (s Summary) Render(w io.Writer) error {
	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	printf("Number of active voxels: %d\n", s.Active)
	if b := s.Bounds; b != nil {
		printf("Coordinate ranges:\n")
		printf("X: min = %d, max = %d\n", b.MinX, b.MaxX)
		printf("Y: min = %d, max = %d\n", b.MinY, b.MaxY)
		printf("Z: min = %d, max = %d\n", b.MinZ, b.MaxZ)
	}

	printf("First %d Morton codes:\n", previewKeys)
	for _, k := range s.First {
		printf("%d\n", k)
	}

	if s.Sorted {
		printf("Morton codes are correctly sorted.\n")
	} else {
		printf("Morton codes are NOT correctly sorted.\n")
	}
	if s.Output != "" {
		printf("Morton codes saved to %s\n", s.Output)
	}

	secs := s.Elapsed.Seconds()
	switch s.Strategy {
	case Threaded.String():
		printf("Processing time with %d threads: %f seconds\n", s.Workers, secs)
	case Distributed.String():
		printf("Processing time with %d processes: %f seconds\n", s.Workers, secs)
	default:
		printf("Processing time (sequential): %f seconds\n", secs)
	}
	return err
}

// JSON writes the report as one JSON document using c (codec.Default if nil).
func (s Summary) JSON(w io.Writer, c codec.Codec) error {
	return codec.Encode(w, c, s)
}
