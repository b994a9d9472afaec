// Package cluster is the runtime of the distributed strategy.
//
// A World is a fixed group of ranks that run the same function and talk only
// through collective operations on a Comm: Barrier, Gather, Gatherv and
// Scatterv, all rooted at one rank. There is no peer-to-peer messaging.
//
// Ranks are goroutines of the current process, each holding only its private
// data; payloads crossing rank boundaries are copied, CRC32C sealed and, when
// enabled, lz4-compressed on the wire. Abort tears the whole world down: every pending
// and future collective on every rank returns the abort error.
//
// Counts and displacements on the wire are limited to MaxCount, the width of
// a 32-bit signed integer, as in common message passing runtimes.
package cluster
