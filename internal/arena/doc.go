// Package arena provides exclusively owned key buffers for scan workers.
//
// # Ownership
//
// A Buffer belongs to exactly one worker while it scans. When the worker is
// done, the aggregator calls Take, which hands the keys over and invalidates
// the worker's handle: later Append or Take calls fail with ErrConsumed.
// Release returns the buffer's memory reservation; it is idempotent and is
// safe to defer on every exit path.
//
// # Memory Accounting
//
// Every capacity change is charged to a MemoryAcquirer before the slice is
// grown. Growth doubles the capacity, so appends are amortized O(1). A
// rejected reservation surfaces as ErrAllocationFailed and leaves the
// buffer unchanged.
package arena
