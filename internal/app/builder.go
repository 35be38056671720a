package app

import (
	"archive/tar"
	"context"
	"errors"
	"io"

	"github.com/klauspost/compress/gzip"

	"fwupload/internal/domain"
	appErrors "fwupload/internal/errors"
	"fwupload/internal/logging"
)

// EntryFunc is called after each archive entry has been written.
type EntryFunc func(current, total int, entry domain.ArchiveEntry)

// Builder writes a filtered file set as a flat gzip-compressed tarball.
type Builder struct {
	FS               FileSystem
	Logger           logging.Logger
	CompressionLevel int
	OnEntry          EntryFunc
}

// Build streams the archive into sink. The sink is not closed.
func (b *Builder) Build(ctx context.Context, files domain.FilteredFileSet, sink io.Writer) ([]domain.ArchiveEntry, error) {
	if b.FS == nil {
		return nil, appErrors.New(appErrors.Internal, "build", "", "builder requires FS")
	}

	stop := b.Logger.Measure("Building archive")
	defer stop()

	paths := files.Files()
	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		name := domain.EntryName(path)
		if other, ok := seen[name]; ok {
			return nil, appErrors.New(appErrors.BuildError, "build", path, "entry %q already written from %s", name, other)
		}
		seen[name] = path
	}

	level := b.CompressionLevel
	if level == 0 {
		level = gzip.DefaultCompression
	}
	gz, err := gzip.NewWriterLevel(sink, level)
	if err != nil {
		return nil, appErrors.Wrap(appErrors.BuildError, "gzip", "", err)
	}
	tw := tar.NewWriter(gz)

	entries := make([]domain.ArchiveEntry, 0, len(paths))
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, appErrors.Wrap(appErrors.BuildError, "build", path, err)
		}
		entry, err := b.writeEntry(tw, path)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
		b.Logger.Verbosef("Added %s (%d bytes)", entry.Name, entry.Size)
		if b.OnEntry != nil {
			b.OnEntry(i+1, len(paths), entry)
		}
	}

	if err := tw.Close(); err != nil {
		return nil, appErrors.Wrap(appErrors.BuildError, "finish tar", "", err)
	}
	if err := gz.Close(); err != nil {
		return nil, appErrors.Wrap(appErrors.BuildError, "finish gzip", "", err)
	}
	return entries, nil
}

func (b *Builder) writeEntry(tw *tar.Writer, path string) (domain.ArchiveEntry, error) {
	file, err := b.FS.Open(path)
	if err != nil {
		return domain.ArchiveEntry{}, appErrors.Wrap(appErrors.BuildError, "open", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return domain.ArchiveEntry{}, appErrors.Wrap(appErrors.BuildError, "stat", path, err)
	}

	entry := domain.ArchiveEntry{
		Name:       domain.EntryName(path),
		Size:       info.Size(),
		SourcePath: path,
	}
	header := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     entry.Name,
		Size:     entry.Size,
		Mode:     int64(info.Mode().Perm()),
		ModTime:  info.ModTime(),
	}
	if err := tw.WriteHeader(header); err != nil {
		return domain.ArchiveEntry{}, appErrors.Wrap(appErrors.BuildError, "write header", path, err)
	}

	if _, err := io.CopyN(tw, file, entry.Size); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("file shrank while being archived")
		}
		return domain.ArchiveEntry{}, appErrors.Wrap(appErrors.BuildError, "copy", path, err)
	}
	return entry, nil
}
