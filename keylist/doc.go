// Package keylist reads and writes Morton key list files.
//
// A key list is plain text: one unsigned decimal key per line, ascending, no
// header. Files whose name ends in ".zst", ".gz" or ".lz4" hold the same text
// inside a zstd, gzip or lz4 container; Open and Create pick the container from
// the name so callers never need to care.
package keylist
