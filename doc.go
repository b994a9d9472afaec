// Package voxsort computes the sorted Morton keys of the active voxels of a
// 3D volume.
//
// A voxel is active when its 8-bit value exceeds the activity threshold (25).
// Its key interleaves the low 10 bits of its x, y and z coordinates, so
// sorting the keys orders the active voxels along a Z-order curve. The same
// globally sorted list is produced by three interchangeable strategies:
//
//	ctx := context.Background()
//	store := blobstore.NewLocalStore(".")
//	in := voxsort.Input{Store: store, Name: "c8.raw", Dims: volume.DefaultDims}
//
//	res, _ := voxsort.Run(ctx, voxsort.Sequential, in)
//	res, _ = voxsort.Run(ctx, voxsort.Threaded, in, voxsort.WithWorkers(8))
//	res, _ = voxsort.Run(ctx, voxsort.Distributed, in, voxsort.WithWorkers(4))
//
// # Strategies
//
// Sequential scans the whole volume with one worker and sorts the result.
//
// Threaded loads the volume once and splits the index range into contiguous
// slices, one per goroutine. Each worker sorts its own keys; the caller then
// aggregates them (concatenate-and-resort by default, or a k-way merge).
//
// Distributed runs a world of ranks, each holding only its slice of the
// volume, either read at its own offset or scattered from the root. Ranks
// gather their sorted lists at the root, which merges and verifies them.
//
// # Resources and errors
//
// Key buffers are charged against a memory budget (WithMemoryLimit).
// Exceeding it fails the whole run with ErrAllocation. Writing the key list
// (WithOutput) is the only step whose failure leaves a usable Result: the
// error is then a *PersistError. An unsorted result is reported in
// Result.Verdict and logged as a warning, never returned as an error.
//
// # Timing
//
// Result.Elapsed covers local processing and aggregation for every strategy.
// Loading the volume is never included.
package voxsort
