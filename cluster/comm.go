package cluster

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// MaxCount is the largest count or displacement a collective can carry.
const MaxCount = math.MaxInt32

var (
	// ErrAborted is wrapped by every error caused by Abort.
	ErrAborted = errors.New("cluster: world aborted")
	// ErrInvalidSize is returned for a world without ranks.
	ErrInvalidSize = errors.New("cluster: world size must be positive")
	// ErrInvalidRoot is returned when the root is not a rank of the world.
	ErrInvalidRoot = errors.New("cluster: invalid root rank")
)

// Comm is one rank's view of the world. All collectives must be called by
// every rank in the same order.
type Comm interface {
	// Rank returns this rank's id in [0, Size).
	Rank() int
	// Size returns the number of ranks.
	Size() int
	// Barrier blocks until every rank has entered it.
	Barrier(ctx context.Context) error
	// Gather collects one count per rank at root. Non-root ranks receive nil.
	// Counts above MaxCount fail with *partition.OverflowError before any transfer.
	Gather(ctx context.Context, root int, count int) ([]int, error)
	// Gatherv collects each rank's keys at root, in rank order. Non-root ranks receive nil.
	Gatherv(ctx context.Context, root int, keys []uint32) ([][]uint32, error)
	// Scatterv sends data[displs[i]:displs[i]+counts[i]] from root to rank i.
	// Only root's data, counts and displs are read. Each rank receives a private copy.
	Scatterv(ctx context.Context, root int, data []byte, counts, displs []int) ([]byte, error)
	// Abort tears down the world with err.
	Abort(err error)
}

// AbortError is returned by collectives after Abort.
type AbortError struct {
	Rank int
	Err  error
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("cluster: aborted by rank %d: %v", e.Rank, e.Err)
}

func (e *AbortError) Unwrap() []error { return []error{ErrAborted, e.Err} }
