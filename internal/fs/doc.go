// Package fs abstracts the file operations used to persist key lists.
//
// Production code uses fs.Default, which delegates to the os package.
// Tests wrap it in a FaultyFS to make an output file unwritable, fail after
// a number of bytes, or fail on Sync or Close:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("morton_codes", fs.Fault{FailAfterBytes: 64})
//	store := blobstore.NewLocalStoreFS(dir, ffs)
//
// There is no context.Context here: local file calls are not interruptible
// at the syscall level. Remote backends live in blobstore.
package fs
