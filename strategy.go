package voxsort

import (
	"fmt"
	"strings"
)

// Strategy is an execution strategy.
type Strategy int

const (
	// Sequential runs one worker over the whole volume.
	Sequential Strategy = iota
	// Threaded runs N goroutines over a shared, read-only volume.
	Threaded
	// Distributed runs N ranks that each hold only their slice of the volume
	// and exchange data through collectives.
	Distributed
)

func (s Strategy) String() string {
	switch s {
	case Sequential:
		return "seq"
	case Threaded:
		return "threads"
	case Distributed:
		return "dist"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// DefaultOutput returns the conventional key list name of s.
func (s Strategy) DefaultOutput() string {
	switch s {
	case Threaded:
		return "morton_codes_pthread.txt"
	case Distributed:
		return "morton_codes_mpi.txt"
	default:
		return "morton_codes_seq.txt"
	}
}

// ParseStrategy parses "seq", "threads" or "dist".
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(s) {
	case "seq", "sequential":
		return Sequential, nil
	case "threads", "threaded", "pthread":
		return Threaded, nil
	case "dist", "distributed", "mpi":
		return Distributed, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidStrategy, s)
	}
}

// LoadMode selects how distributed ranks obtain their slice of the volume.
type LoadMode int

const (
	// LoadOffsetRead has every rank read its own byte range from the store.
	LoadOffsetRead LoadMode = iota
	// LoadScatter has the root read the whole volume and scatter the slices.
	LoadScatter
)

func (m LoadMode) String() string {
	switch m {
	case LoadOffsetRead:
		return "offset"
	case LoadScatter:
		return "scatter"
	default:
		return fmt.Sprintf("LoadMode(%d)", int(m))
	}
}

// ParseLoadMode parses "offset" or "scatter".
func ParseLoadMode(s string) (LoadMode, error) {
	switch strings.ToLower(s) {
	case "offset", "offset-read":
		return LoadOffsetRead, nil
	case "scatter":
		return LoadScatter, nil
	default:
		return 0, fmt.Errorf("unknown load mode %q", s)
	}
}
