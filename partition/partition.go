// Package partition splits a flat index space into contiguous per-worker ranges.
package partition

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidWorkers is returned when the worker count is not positive.
	ErrInvalidWorkers = errors.New("partition: worker count must be positive")

	// ErrInvalidTotal is returned when the element count is negative.
	ErrInvalidTotal = errors.New("partition: total must not be negative")
)

// Range is a half-open index interval [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns the number of indices in the range.
func (r Range) Len() int { return r.End - r.Start }

// Contains reports whether idx lies in the range.
func (r Range) Contains(idx int) bool { return idx >= r.Start && idx < r.End }

func (r Range) String() string { return fmt.Sprintf("[%d, %d)", r.Start, r.End) }

// Plan is an ordered list of contiguous, non-overlapping ranges, one per worker.
type Plan []Range

// Split divides total elements among n workers.
//
// Every worker receives total/n elements; the last worker also absorbs
// total%n. When n > total the leading ranges are empty.
func Split(total, n int) (Plan, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWorkers, n)
	}
	if total < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTotal, total)
	}

	base := total / n
	plan := make(Plan, n)
	for i := range plan {
		plan[i] = Range{Start: i * base, End: (i + 1) * base}
	}
	plan[n-1].End = total
	return plan, nil
}

// Total returns the number of indices covered by the plan.
func (p Plan) Total() int {
	if len(p) == 0 {
		return 0
	}
	return p[len(p)-1].End - p[0].Start
}

// Covers reports whether the plan tiles [0, total) exactly.
func (p Plan) Covers(total int) bool {
	if len(p) == 0 {
		return total == 0
	}
	next := 0
	for _, r := range p {
		if r.Start != next || r.End < r.Start {
			return false
		}
		next = r.End
	}
	return next == total
}

// Counts returns the per-worker element counts.
func (p Plan) Counts() []int {
	counts := make([]int, len(p))
	for i, r := range p {
		counts[i] = r.Len()
	}
	return counts
}

// Displs returns the per-worker start offsets.
func (p Plan) Displs() []int {
	displs := make([]int, len(p))
	for i, r := range p {
		displs[i] = r.Start
	}
	return displs
}

// CheckWidth validates that every count and offset fits in a transport
// integer bounded by limit. It returns an *OverflowError for the first
// value that does not.
func (p Plan) CheckWidth(limit int64) error {
	for i, r := range p {
		if int64(r.Len()) > limit {
			return &OverflowError{Worker: i, Field: "count", Value: int64(r.Len()), Limit: limit}
		}
		if int64(r.Start) > limit {
			return &OverflowError{Worker: i, Field: "offset", Value: int64(r.Start), Limit: limit}
		}
	}
	return nil
}
