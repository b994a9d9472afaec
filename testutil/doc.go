// Package testutil provides testing utilities for voxsort.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating deterministic volumes and sorted key
// lists, and a brute-force reference for the expected keys of a volume.
//
// # Random Volumes
//
//	rng := testutil.NewRNG(seed)
//	data := rng.Volume(dims, 25, 0.1) // about 10% active voxels
//
// # Ground Truth
//
//	want := testutil.ReferenceKeys(dims, data, 25)
package testutil
