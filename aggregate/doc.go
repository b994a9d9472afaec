// Package aggregate combines per-worker sorted key lists into one sorted list.
//
// Three interchangeable strategies produce identical output:
//
//   - Concat copies the lists in worker order and re-sorts the whole buffer.
//   - LinearMerge scans every list head on each step (O(N) per output key).
//   - HeapMerge keeps the list heads in a min-heap (O(log N) per output key).
//
// When two heads are equal the head from the lower list index is taken first.
package aggregate
