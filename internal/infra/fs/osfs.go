package fs

import (
	"io"
	"io/fs"
	"os"

	"github.com/spf13/afero"
)

// FS adapts an afero filesystem to the collector and builder read boundary.
type FS struct {
	Base afero.Fs
}

// OS returns an FS backed by the host filesystem.
func OS() FS {
	return FS{Base: afero.NewOsFs()}
}

// Memory returns an FS backed by an in-memory filesystem.
func Memory() FS {
	return FS{Base: afero.NewMemMapFs()}
}

// ReadDir lists the direct children of dir sorted by name.
func (f FS) ReadDir(dir string) ([]fs.FileInfo, error) {
	return afero.ReadDir(f.Base, dir)
}

func (f FS) Stat(path string) (fs.FileInfo, error) {
	return f.Base.Stat(path)
}

// Lstat does not follow symlinks when the backing filesystem supports them.
func (f FS) Lstat(path string) (fs.FileInfo, error) {
	if lstater, ok := f.Base.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(path)
		return info, err
	}
	return f.Base.Stat(path)
}

func (f FS) Readlink(path string) (string, error) {
	if reader, ok := f.Base.(afero.LinkReader); ok {
		return reader.ReadlinkIfPossible(path)
	}
	return "", &os.PathError{Op: "readlink", Path: path, Err: afero.ErrNoReadlink}
}

func (f FS) Open(path string) (fs.File, error) {
	return f.Base.Open(path)
}

func (f FS) Exists(path string) (bool, error) {
	return afero.Exists(f.Base, path)
}

// Create opens path for writing, truncating an existing file. Parent
// directories are not created.
func (f FS) Create(path string) (io.WriteCloser, error) {
	return f.Base.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
}
