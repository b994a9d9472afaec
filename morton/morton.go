package morton

// Key is a 30-bit interleaved coordinate code.
type Key = uint32

const (
	// Bits is the number of bits kept per coordinate.
	Bits = 10

	// Mask selects the low Bits of a coordinate.
	Mask = 1<<Bits - 1

	// MaxKey is the largest key Encode can produce.
	MaxKey Key = 1<<(3*Bits) - 1
)

// Dilate spreads the low 10 bits of v so that bit i moves to bit 3i.
// Higher bits of v are discarded.
func Dilate(v uint32) uint32 {
	v &= Mask
	v = (v | v<<16) & 0x30000FF
	v = (v | v<<8) & 0x300F00F
	v = (v | v<<4) & 0x30C30C3
	v = (v | v<<2) & 0x9249249
	return v
}

// Compact is the inverse of Dilate: it gathers every third bit of v
// (starting at bit 0) into the low 10 bits.
func Compact(v uint32) uint32 {
	v &= 0x9249249
	v = (v | v>>2) & 0x30C30C3
	v = (v | v>>4) & 0x300F00F
	v = (v | v>>8) & 0x30000FF
	v = (v | v>>16) & Mask
	return v
}

// Encode interleaves x, y and z into a single key.
// Coordinates outside [0, 1024) are silently truncated to their low 10 bits.
func Encode(x, y, z uint32) Key {
	return Dilate(x) | Dilate(y)<<1 | Dilate(z)<<2
}

// Decode splits k back into its coordinates.
func Decode(k Key) (x, y, z uint32) {
	return Compact(k), Compact(k >> 1), Compact(k >> 2)
}

// EncodeIndex recovers (x, y, z) from a flat index into a grid of width dx
// and height dy, then encodes it.
//
//	x = idx mod dx; idx' = idx div dx; y = idx' mod dy; z = idx' div dy
func EncodeIndex(idx, dx, dy int) Key {
	x := idx % dx
	idx /= dx
	y := idx % dy
	z := idx / dy
	return Encode(uint32(x), uint32(y), uint32(z)) //nolint:gosec // truncation to 10 bits is intended
}
