package aggregate

import (
	"context"
	"slices"
	"testing"

	"github.com/hupe1980/voxsort/internal/resource"
	"github.com/hupe1980/voxsort/morton"
	"github.com/hupe1980/voxsort/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func all(mem *resource.Controller) []Aggregator {
	return []Aggregator{Concat{Memory: mem}, LinearMerge{Memory: mem}, HeapMerge{Memory: mem}}
}

func TestAggregate_Basic(t *testing.T) {
	lists := [][]morton.Key{{1, 5, 9}, {2, 3}, {4}}

	for _, a := range all(nil) {
		t.Run(a.Name(), func(t *testing.T) {
			out, err := a.Aggregate(t.Context(), lists)
			require.NoError(t, err)
			assert.Equal(t, []morton.Key{1, 2, 3, 4, 5, 9}, out)
		})
	}
}

func TestAggregate_EmptyInputs(t *testing.T) {
	cases := []struct {
		name  string
		lists [][]morton.Key
		want  []morton.Key
	}{
		{"NoLists", nil, []morton.Key{}},
		{"EmptyLists", [][]morton.Key{{}, {}, {}}, []morton.Key{}},
		{"SomeEmpty", [][]morton.Key{{}, {7}, {}}, []morton.Key{7}},
	}

	for _, tc := range cases {
		for _, a := range all(nil) {
			t.Run(tc.name+"/"+a.Name(), func(t *testing.T) {
				out, err := a.Aggregate(t.Context(), tc.lists)
				require.NoError(t, err)
				assert.Equal(t, tc.want, out)
			})
		}
	}
}

func TestAggregate_Duplicates(t *testing.T) {
	lists := [][]morton.Key{{1, 2, 2}, {2, 3}, {0, 2}}
	want := []morton.Key{0, 1, 2, 2, 2, 2, 3}

	for _, a := range all(nil) {
		out, err := a.Aggregate(t.Context(), lists)
		require.NoError(t, err)
		assert.Equal(t, want, out, a.Name())
	}
}

func TestAggregate_Agree(t *testing.T) {
	rng := testutil.NewRNG(99)
	for _, n := range []int{1, 2, 3, 8, 17} {
		lists := rng.SortedLists(n, 200)
		want := append([]morton.Key{}, slices.Concat(lists...)...)
		slices.Sort(want)

		for _, a := range all(nil) {
			out, err := a.Aggregate(t.Context(), lists)
			require.NoError(t, err)
			assert.Equal(t, want, out, "%s with %d lists", a.Name(), n)
		}
	}
}

func TestAggregate_MemoryBudget(t *testing.T) {
	lists := [][]morton.Key{{1, 2, 3}, {4, 5, 6}}

	for _, a := range all(resource.NewController(resource.Config{MemoryLimitBytes: 16})) {
		_, err := a.Aggregate(t.Context(), lists)
		assert.ErrorIs(t, err, ErrAllocation, a.Name())
		assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded, a.Name())
	}

	rc := resource.NewController(resource.Config{MemoryLimitBytes: 24})
	out, err := HeapMerge{Memory: rc}.Aggregate(t.Context(), lists)
	require.NoError(t, err)
	assert.Equal(t, int64(24), rc.MemoryUsage())
	Release(rc, len(out))
	assert.Zero(t, rc.MemoryUsage())
}

func TestAggregate_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	rc := resource.NewController(resource.Config{})
	for _, a := range all(rc) {
		_, err := a.Aggregate(ctx, [][]morton.Key{{1}, {2}})
		assert.ErrorIs(t, err, context.Canceled, a.Name())
	}
	assert.Zero(t, rc.MemoryUsage())
}

func TestByName(t *testing.T) {
	for _, name := range Names {
		a, err := ByName(name, nil)
		require.NoError(t, err)
		assert.Equal(t, name, a.Name())
	}

	_, err := ByName("bogus", nil)
	assert.ErrorIs(t, err, ErrUnknown)
}
