package testutil

import (
	"slices"
	"testing"

	"github.com/hupe1980/voxsort/volume"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVolume(t *testing.T) {
	dims := volume.Dims{X: 16, Y: 16, Z: 8}
	rng := NewRNG(42)
	data := rng.Volume(dims, 25, 0.3)
	require.Len(t, data, dims.Total())

	active := 0
	for _, v := range data {
		if v > 25 {
			active++
		}
	}
	assert.InDelta(t, 0.3, float64(active)/float64(len(data)), 0.05)
}

func TestReset(t *testing.T) {
	dims := volume.Dims{X: 4, Y: 4, Z: 4}
	rng := NewRNG(7)
	a := rng.Volume(dims, 25, 0.5)
	rng.Reset()
	b := rng.Volume(dims, 25, 0.5)
	assert.Equal(t, a, b)
	assert.Equal(t, int64(7), rng.Seed())
}

func TestSortedLists(t *testing.T) {
	lists := NewRNG(1).SortedLists(5, 50)
	require.Len(t, lists, 5)

	seen := map[uint32]bool{}
	for _, l := range lists {
		assert.True(t, slices.IsSorted(l))
		for _, k := range l {
			assert.False(t, seen[k])
			seen[k] = true
		}
	}
}

func TestSphere(t *testing.T) {
	dims := volume.Dims{X: 9, Y: 9, Z: 9}
	data := Sphere(dims, 2, 200)
	assert.Equal(t, byte(200), data[dims.Index(4, 4, 4)])
	assert.Equal(t, byte(0), data[dims.Index(0, 0, 0)])
}

func TestReferenceKeys(t *testing.T) {
	dims := volume.Dims{X: 2, Y: 2, Z: 2}
	keys := ReferenceKeys(dims, Constant(dims, 26), 25)
	assert.Equal(t, []uint32{0, 1, 2, 3, 4, 5, 6, 7}, keys)
	assert.Empty(t, ReferenceKeys(dims, Constant(dims, 25), 25))
}
