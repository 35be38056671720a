package app

import (
	"context"
	"time"

	"fwupload/internal/domain"
	appErrors "fwupload/internal/errors"
	"fwupload/internal/logging"
)

// Uploader runs collect, build and publish in sequence.
type Uploader struct {
	Collector   *Collector
	Builder     *Builder
	Publisher   *Publisher
	Logger      logging.Logger
	OnCollected func(files domain.FilteredFileSet)
}

// Collect gathers the filtered file set and enforces the configured threshold.
func (u *Uploader) Collect(ctx context.Context, cfg domain.Configuration) (domain.FilteredFileSet, error) {
	files, err := u.Collector.Collect(ctx, cfg)
	if err != nil {
		return domain.FilteredFileSet{}, err
	}
	if files.Len() < cfg.Threshold {
		return domain.FilteredFileSet{}, appErrors.New(appErrors.CollectionError, "threshold", "",
			"collected %d files, at least %d required", files.Len(), cfg.Threshold)
	}
	return files, nil
}

// Run builds the archive directly into the opened destination sink.
func (u *Uploader) Run(ctx context.Context, cfg domain.Configuration) (domain.Report, error) {
	if u.Collector == nil || u.Builder == nil || u.Publisher == nil {
		return domain.Report{}, appErrors.New(appErrors.Internal, "upload", "", "uploader requires Collector, Builder and Publisher")
	}
	start := time.Now()

	if !cfg.Target.HasArchiveSuffix() {
		u.Logger.Warnf("Target %s does not end with .tar.gz", cfg.Target)
	}

	files, err := u.Collect(ctx, cfg)
	if err != nil {
		return domain.Report{}, err
	}
	if u.OnCollected != nil {
		u.OnCollected(files)
	}

	sink, err := u.Publisher.Open(ctx, cfg.Target, cfg.Replication)
	if err != nil {
		return domain.Report{}, err
	}
	counter := &countingWriter{w: sink}

	entries, err := u.Builder.Build(ctx, files, counter)
	if err != nil {
		u.Publisher.abort(sink, err)
		if counter.err != nil {
			return domain.Report{}, appErrors.Wrap(appErrors.PublishError, "write", cfg.Target.String(), counter.err)
		}
		return domain.Report{}, err
	}
	if err := sink.Close(); err != nil {
		return domain.Report{}, appErrors.Wrap(appErrors.PublishError, "close", cfg.Target.String(), err)
	}

	report := domain.Report{
		Target:      cfg.Target,
		Files:       files,
		Entries:     entries,
		BytesStored: counter.n,
		Elapsed:     time.Since(start),
	}
	for _, entry := range entries {
		report.BytesRead += entry.Size
	}
	u.Logger.With("target", cfg.Target.String()).Infof("Published %d files (%d bytes)", len(entries), report.BytesStored)
	return report, nil
}
