package volume

import "fmt"

// Bounds is the bounding box of the active voxels. The zero value is empty.
type Bounds struct {
	MinX, MinY, MinZ int
	MaxX, MaxY, MaxZ int
	Valid            bool
}

// Add extends the box to include (x, y, z).
func (b *Bounds) Add(x, y, z int) {
	if !b.Valid {
		*b = Bounds{MinX: x, MinY: y, MinZ: z, MaxX: x, MaxY: y, MaxZ: z, Valid: true}
		return
	}
	b.MinX, b.MaxX = min(b.MinX, x), max(b.MaxX, x)
	b.MinY, b.MaxY = min(b.MinY, y), max(b.MaxY, y)
	b.MinZ, b.MaxZ = min(b.MinZ, z), max(b.MaxZ, z)
}

// Merge returns the union of two boxes.
func (b Bounds) Merge(o Bounds) Bounds {
	switch {
	case !o.Valid:
		return b
	case !b.Valid:
		return o
	}
	return Bounds{
		MinX: min(b.MinX, o.MinX), MinY: min(b.MinY, o.MinY), MinZ: min(b.MinZ, o.MinZ),
		MaxX: max(b.MaxX, o.MaxX), MaxY: max(b.MaxY, o.MaxY), MaxZ: max(b.MaxZ, o.MaxZ),
		Valid: true,
	}
}

func (b Bounds) String() string {
	if !b.Valid {
		return "empty"
	}
	return fmt.Sprintf("x[%d,%d] y[%d,%d] z[%d,%d]", b.MinX, b.MaxX, b.MinY, b.MaxY, b.MinZ, b.MaxZ)
}
