package volume

import (
	"errors"
	"fmt"
)

// ErrInvalidDims is returned for non-positive volume dimensions.
var ErrInvalidDims = errors.New("volume: invalid dimensions")

// Dims is the size of a volume along each axis.
type Dims struct {
	X, Y, Z int
}

// DefaultDims is the size of the reference dataset.
var DefaultDims = Dims{X: 1024, Y: 1024, Z: 314}

// Validate checks that every dimension is positive.
func (d Dims) Validate() error {
	if d.X <= 0 || d.Y <= 0 || d.Z <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidDims, d)
	}
	return nil
}

// Total returns the number of voxels.
func (d Dims) Total() int { return d.X * d.Y * d.Z }

// Index returns the global index of (x, y, z).
func (d Dims) Index(x, y, z int) int { return x + d.X*(y+d.Y*z) }

// Coords returns the coordinates of a global index.
func (d Dims) Coords(idx int) (x, y, z int) {
	x = idx % d.X
	idx /= d.X
	return x, idx % d.Y, idx / d.Y
}

func (d Dims) String() string { return fmt.Sprintf("%dx%dx%d", d.X, d.Y, d.Z) }

// ParseDims parses "XxYxZ".
func ParseDims(s string) (Dims, error) {
	var d Dims
	if _, err := fmt.Sscanf(s, "%dx%dx%d", &d.X, &d.Y, &d.Z); err != nil {
		return Dims{}, fmt.Errorf("%w: %q", ErrInvalidDims, s)
	}
	if err := d.Validate(); err != nil {
		return Dims{}, err
	}
	return d, nil
}
