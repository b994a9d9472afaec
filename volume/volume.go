package volume

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/hupe1980/voxsort/partition"
)

// ErrSizeMismatch is returned when the input does not hold exactly the expected bytes.
var ErrSizeMismatch = errors.New("volume: size mismatch")

// Volume is an immutable, possibly partial, voxel volume.
type Volume struct {
	dims   Dims
	base   int
	data   []byte
	closer func() error
	closed atomic.Bool
}

// New wraps a full volume held in memory.
func New(dims Dims, data []byte) (*Volume, error) {
	return NewRange(dims, partition.Range{Start: 0, End: dims.Total()}, data)
}

// NewRange wraps the bytes of rng, a slice of a volume of size dims.
func NewRange(dims Dims, rng partition.Range, data []byte) (*Volume, error) {
	if err := dims.Validate(); err != nil {
		return nil, err
	}
	if rng.Start < 0 || rng.End > dims.Total() || rng.Start > rng.End {
		return nil, fmt.Errorf("volume: range %s outside %s", rng, dims)
	}
	if len(data) != rng.Len() {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrSizeMismatch, len(data), rng.Len())
	}
	return &Volume{dims: dims, base: rng.Start, data: data}, nil
}

// Dims returns the dimensions of the whole volume.
func (v *Volume) Dims() Dims { return v.dims }

// Base returns the global index of Data()[0].
func (v *Volume) Base() int { return v.base }

// Data returns the voxel bytes. The slice must not be modified.
func (v *Volume) Data() []byte { return v.data }

// Range returns the global index range held by this volume.
func (v *Volume) Range() partition.Range {
	return partition.Range{Start: v.base, End: v.base + len(v.data)}
}

// Slice returns the bytes of the global range rng, which must lie within Range.
func (v *Volume) Slice(rng partition.Range) ([]byte, error) {
	own := v.Range()
	if rng.Start < own.Start || rng.End > own.End || rng.Start > rng.End {
		return nil, fmt.Errorf("volume: range %s not within %s", rng, own)
	}
	return v.data[rng.Start-v.base : rng.End-v.base], nil
}

// Close releases any backing mapping. It is safe to call more than once.
func (v *Volume) Close() error {
	if v == nil || !v.closed.CompareAndSwap(false, true) {
		return nil
	}
	v.data = nil
	if v.closer != nil {
		return v.closer()
	}
	return nil
}
