// Package storage defines the FileStore interface that graph tables are read
// from and rewritten to. It abstracts the backend so that a table can live on
// local disk or in an S3-compatible object store without changing the
// persistence code.
//
// Writes are all-or-nothing: a Writer either commits its full content on
// Close or discards it on Abort, so readers never observe a half-written
// table.
package storage

import (
	"context"
	"io"
)

// FileStore reads and replaces whole files.
//
// Paths are forward-slash separated and relative to the store root.
// Implementations must be safe for concurrent use, but concurrent writers to
// the same path race: the last committed write wins.
type FileStore interface {
	// Read opens the named file for reading.
	// The caller must close the returned ReadCloser when done.
	// If the file does not exist, an error wrapping os.ErrNotExist is returned.
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Write opens the named file for replacement. Parent directories are
	// created automatically. The previous content stays visible until
	// Close commits the new content.
	Write(ctx context.Context, path string) (Writer, error)
}

// Writer receives the full new content of a file.
type Writer interface {
	io.Writer

	// Close commits the written content, replacing the previous file.
	Close() error

	// Abort discards the written content and leaves the previous file in
	// place. Abort after Close is a no-op.
	Abort(cause error) error
}
