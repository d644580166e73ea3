// Package reader converts opaque stored values to requested Go types.
//
// A Registry holds an ordered list of ValueReaders and a set of
// ContainerBuilders. Read picks the first reader compatible with the target
// type; when none is, a value that already has the target type is returned
// unchanged, and container types are rebuilt element by element through a
// Capture:
//
//	n, err := reader.As[int64](reader.Default(), "42")
//	xs, err := reader.AsCaptured[[]int](reader.Default(), []any{10, 20})
//
// The process-wide registry is assembled once, either explicitly with
// Initialize or lazily by Default, and is read-only afterwards.
package reader
