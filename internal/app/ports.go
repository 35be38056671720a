package app

import (
	"context"
	"io"
	"io/fs"

	"fwupload/internal/domain"
)

// FileSystem is the read boundary used to enumerate and read classpath entries.
type FileSystem interface {
	ReadDir(dir string) ([]fs.FileInfo, error)
	Stat(path string) (fs.FileInfo, error)
	Lstat(path string) (fs.FileInfo, error)
	Readlink(path string) (string, error)
	Open(path string) (fs.File, error)
}

// SinkOpener opens a writable byte sink for a target URI.
type SinkOpener interface {
	Open(ctx context.Context, target domain.Target, replication int) (io.WriteCloser, error)
}

// Aborter is implemented by sinks that can discard a partially written
// destination instead of committing it.
type Aborter interface {
	CloseWithError(err error) error
}
