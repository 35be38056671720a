package domain

import (
	"path/filepath"
	"time"
)

// ArchiveEntry is one file record written into the bundle.
type ArchiveEntry struct {
	Name       string
	Size       int64
	SourcePath string
}

// EntryName is the flat archive name of a source path.
func EntryName(sourcePath string) string {
	return filepath.Base(sourcePath)
}

// Report summarizes a finished upload run.
type Report struct {
	Target      Target
	Files       FilteredFileSet
	Entries     []ArchiveEntry
	BytesRead   int64
	BytesStored int64
	Elapsed     time.Duration
}
