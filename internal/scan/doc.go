// Package scan turns a range of voxels into a sorted list of Morton keys.
//
// Process is the per-worker step shared by every execution strategy. It
// filters voxels above the activity threshold, encodes their coordinates
// (always derived from the global voxel index) and sorts the result. Key
// storage comes from an arena.Buffer charged against a resource.Controller,
// so an exhausted memory budget surfaces as ErrAllocation.
//
// Two fill modes produce identical output:
//
//   - FillGrowable appends into a buffer that doubles when full.
//   - FillTwoPass counts active voxels first and allocates exactly once.
package scan
