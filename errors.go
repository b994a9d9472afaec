package voxsort

import (
	"errors"
	"fmt"

	"github.com/hupe1980/voxsort/aggregate"
	"github.com/hupe1980/voxsort/internal/scan"
	"github.com/hupe1980/voxsort/partition"
)

var (
	// ErrInvalidStrategy is returned for an unknown execution strategy.
	ErrInvalidStrategy = errors.New("invalid strategy")

	// ErrInvalidWorkers is returned when the worker count is below 1.
	ErrInvalidWorkers = partition.ErrInvalidWorkers

	// ErrAllocation is returned when key storage could not be reserved within
	// the memory budget. It is fatal to the whole run.
	ErrAllocation = errors.New("allocation failed")

	// ErrPartialVolume is returned when a strategy that needs the whole
	// volume is given a range of it.
	ErrPartialVolume = errors.New("volume does not cover the whole dataset")
)

// PersistError reports that the key list could not be written.
// The in-memory Result returned alongside it remains valid.
//
// The original underlying error can be accessed via errors.Unwrap.
type PersistError struct {
	Name  string
	cause error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to write key list %s: %v", e.Name, e.cause)
}

func (e *PersistError) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, scan.ErrAllocation) || errors.Is(err, aggregate.ErrAllocation) {
		return fmt.Errorf("%w: %w", ErrAllocation, err)
	}

	return err
}
