package testutil

import (
	"math/rand"
	"slices"
	"sync"

	"github.com/hupe1980/voxsort/morton"
	"github.com/hupe1980/voxsort/volume"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Volume returns dims.Total() random voxels. About activeRate of them are
// above threshold; the rest are at or below it.
// Locks only once per call.
func (r *RNG) Volume(dims volume.Dims, threshold byte, activeRate float64) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]byte, dims.Total())
	above := 255 - int(threshold)
	for i := range data {
		if r.rand.Float64() < activeRate {
			data[i] = threshold + 1 + byte(r.rand.Intn(above))
		} else {
			data[i] = byte(r.rand.Intn(int(threshold) + 1))
		}
	}
	return data
}

// SortedLists returns n ascending lists with up to maxLen distinct keys each.
// Keys are unique across lists, as keys of disjoint voxel ranges are.
func (r *RNG) SortedLists(n, maxLen int) [][]uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[uint32]struct{})
	lists := make([][]uint32, n)
	for i := range lists {
		size := r.rand.Intn(maxLen + 1)
		list := make([]uint32, 0, size)
		for len(list) < size {
			k := uint32(r.rand.Int63n(int64(morton.MaxKey) + 1))
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			list = append(list, k)
		}
		slices.Sort(list)
		lists[i] = list
	}
	return lists
}

// Sphere returns a volume whose voxels inside the given radius around the
// center are set to value and zero elsewhere.
func Sphere(dims volume.Dims, radius float64, value byte) []byte {
	data := make([]byte, dims.Total())
	cx, cy, cz := float64(dims.X-1)/2, float64(dims.Y-1)/2, float64(dims.Z-1)/2
	r2 := radius * radius
	for i := range data {
		x, y, z := dims.Coords(i)
		dx, dy, dz := float64(x)-cx, float64(y)-cy, float64(z)-cz
		if dx*dx+dy*dy+dz*dz <= r2 {
			data[i] = value
		}
	}
	return data
}

// Constant returns a volume with every voxel set to value.
func Constant(dims volume.Dims, value byte) []byte {
	data := make([]byte, dims.Total())
	for i := range data {
		data[i] = value
	}
	return data
}

// ReferenceKeys computes the expected sorted keys of data by brute force.
func ReferenceKeys(dims volume.Dims, data []byte, threshold byte) []uint32 {
	var keys []uint32
	for i, v := range data {
		if v > threshold {
			x, y, z := dims.Coords(i)
			keys = append(keys, morton.Encode(uint32(x), uint32(y), uint32(z)))
		}
	}
	slices.Sort(keys)
	return keys
}
