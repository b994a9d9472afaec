// Package volume holds the 3D voxel volume and its geometry.
//
// A Volume is a read-only byte slice of 8-bit voxels, laid out with x varying
// fastest, then y, then z. The slice may cover the whole volume or, for a
// distributed rank, a contiguous range of it; Base reports the global index of
// the first byte so that coordinates are always derived from global indices.
//
// Volumes are loaded from a blobstore.Store. Local blobs are memory-mapped and
// used without copying; other backends are read through the resource
// controller's IO throttle.
package volume
