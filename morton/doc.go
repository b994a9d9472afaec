// Package morton computes Morton (Z-order) keys for 3D voxel coordinates.
//
// Each coordinate is truncated to its low 10 bits and dilated so that bit i
// lands at bit 3i. The dilated x, y and z patterns are OR-ed together at
// offsets 0, 1 and 2, producing a 30-bit key whose numeric order follows the
// Z-order space-filling curve.
//
// # Usage
//
//	k := morton.Encode(x, y, z)
//	x, y, z = morton.Decode(k)
//
// Encoding is branchless and bit-exact on every platform. Every execution
// strategy relies on that: merged and compared outputs are only meaningful
// when all producers encode identically.
package morton
