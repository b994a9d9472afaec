package aggregate

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/hupe1980/voxsort/internal/queue"
	"github.com/hupe1980/voxsort/internal/resource"
	"github.com/hupe1980/voxsort/morton"
)

// ErrAllocation is returned when the output buffer cannot be reserved.
var ErrAllocation = errors.New("aggregate: allocation failed")

// ErrUnknown is returned by ByName for an unknown aggregator name.
var ErrUnknown = errors.New("aggregate: unknown aggregator")

// checkEvery is the number of output keys between cancellation checks.
const checkEvery = 1 << 20

// Aggregator merges sorted lists into one sorted list.
type Aggregator interface {
	// Name returns the identifier accepted by ByName.
	Name() string
	// Aggregate merges lists. Each input list must be sorted ascending.
	Aggregate(ctx context.Context, lists [][]morton.Key) ([]morton.Key, error)
}

// Names lists the identifiers accepted by ByName.
var Names = []string{"concat", "merge", "heap"}

// ByName returns the aggregator for name, charging output against mem.
func ByName(name string, mem *resource.Controller) (Aggregator, error) {
	switch strings.ToLower(name) {
	case "concat", "resort":
		return Concat{Memory: mem}, nil
	case "merge", "linear":
		return LinearMerge{Memory: mem}, nil
	case "heap":
		return HeapMerge{Memory: mem}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
}

// Release returns the reservation made for an output of n keys.
func Release(mem *resource.Controller, n int) {
	mem.ReleaseMemory(int64(n) * 4)
}

func allocate(mem *resource.Controller, lists [][]morton.Key) ([]morton.Key, error) {
	total := 0
	for _, l := range lists {
		total += len(l)
	}
	if err := mem.AcquireMemory(int64(total) * 4); err != nil {
		return nil, fmt.Errorf("%w: %d keys: %w", ErrAllocation, total, err)
	}
	return make([]morton.Key, 0, total), nil
}

// Concat concatenates the lists in order and sorts the result.
type Concat struct {
	Memory *resource.Controller
}

func (Concat) Name() string { return "concat" }

func (c Concat) Aggregate(ctx context.Context, lists [][]morton.Key) ([]morton.Key, error) {
	out, err := allocate(c.Memory, lists)
	if err != nil {
		return nil, err
	}
	for _, l := range lists {
		out = append(out, l...)
	}
	if err := ctx.Err(); err != nil {
		Release(c.Memory, cap(out))
		return nil, err
	}
	slices.Sort(out)
	return out, nil
}

// LinearMerge is the naive k-way merge.
type LinearMerge struct {
	Memory *resource.Controller
}

func (LinearMerge) Name() string { return "merge" }

func (m LinearMerge) Aggregate(ctx context.Context, lists [][]morton.Key) ([]morton.Key, error) {
	out, err := allocate(m.Memory, lists)
	if err != nil {
		return nil, err
	}

	pos := make([]int, len(lists))
	for len(out) < cap(out) {
		if len(out)%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				Release(m.Memory, cap(out))
				return nil, err
			}
		}

		best := -1
		var bestKey morton.Key
		for i, l := range lists {
			if pos[i] < len(l) && (best < 0 || l[pos[i]] < bestKey) {
				best, bestKey = i, l[pos[i]]
			}
		}
		out = append(out, bestKey)
		pos[best]++
	}
	return out, nil
}

// HeapMerge is the k-way merge over a min-heap of list heads.
type HeapMerge struct {
	Memory *resource.Controller
}

func (HeapMerge) Name() string { return "heap" }

func (m HeapMerge) Aggregate(ctx context.Context, lists [][]morton.Key) ([]morton.Key, error) {
	out, err := allocate(m.Memory, lists)
	if err != nil {
		return nil, err
	}

	q := queue.NewMin(len(lists))
	for i, l := range lists {
		if len(l) > 0 {
			q.PushItem(queue.Head{Key: l[0], List: i})
		}
	}

	for {
		h, ok := q.TopItem()
		if !ok {
			break
		}
		if len(out)%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				Release(m.Memory, cap(out))
				return nil, err
			}
		}
		out = append(out, h.Key)

		l := lists[h.List]
		if next := h.Pos + 1; next < len(l) {
			q.ReplaceTop(queue.Head{Key: l[next], List: h.List, Pos: next})
		} else {
			q.PopItem()
		}
	}
	return out, nil
}
