package app

import (
	"context"
	"io/fs"
	"path/filepath"
	"regexp"

	"fwupload/internal/domain"
	appErrors "fwupload/internal/errors"
	"fwupload/internal/logging"
)

type skipReason int

const (
	keep skipReason = iota
	skipDirectory
	skipIrregular
	skipSameDirLink
)

func (r skipReason) String() string {
	switch r {
	case skipDirectory:
		return "directory"
	case skipIrregular:
		return "not a regular file"
	case skipSameDirLink:
		return "symlink into its own directory"
	default:
		return ""
	}
}

// Collector expands classpath patterns into a filtered file set.
type Collector struct {
	FS     FileSystem
	Logger logging.Logger
}

func (c *Collector) Collect(ctx context.Context, cfg domain.Configuration) (domain.FilteredFileSet, error) {
	if c.FS == nil {
		return domain.FilteredFileSet{}, appErrors.New(appErrors.Internal, "collect", "", "collector requires FS")
	}
	if len(cfg.InputPatterns) == 0 {
		return domain.FilteredFileSet{}, appErrors.New(appErrors.ConfigurationError, "collect", "", "no input patterns")
	}

	stop := c.Logger.Measure("Collecting classpath")
	defer stop()

	set := domain.NewFileSetBuilder()
	names := make(map[string]string)
	candidates := 0

	for _, pattern := range cfg.InputPatterns {
		if err := ctx.Err(); err != nil {
			return domain.FilteredFileSet{}, appErrors.Wrap(appErrors.CollectionError, "collect", pattern, err)
		}
		paths, err := c.enumerate(pattern, cfg.SkipSameDirSymlinks)
		if err != nil {
			return domain.FilteredFileSet{}, err
		}
		candidates += len(paths)

		for _, path := range paths {
			if !c.admit(path, cfg.Whitelist, cfg.Blacklist, set) {
				continue
			}
			if !set.Add(path) {
				c.Logger.Verbosef("Already collected %s", path)
				continue
			}
			name := domain.EntryName(path)
			if other, ok := names[name]; ok {
				return domain.FilteredFileSet{}, appErrors.New(appErrors.CollectionError, "collect", path,
					"archive entry %q is also provided by %s", name, other)
			}
			names[name] = path
		}
	}

	result := set.Build()
	c.Logger.Verbosef("Collected %d of %d candidate files (%d whitelisted, %d blacklisted)",
		result.Len(), candidates, len(result.Whitelisted()), len(result.Blacklisted()))
	return result, nil
}

// admit applies the whitelist then the blacklist to path, recording diagnostic matches.
// An empty whitelist admits, and records, every path.
func (c *Collector) admit(path string, whitelist, blacklist []*regexp.Regexp, set *domain.FileSetBuilder) bool {
	if len(whitelist) > 0 && !matchesAny(whitelist, path) {
		c.Logger.Verbosef("Not whitelisted %s", path)
		return false
	}
	set.MarkWhitelisted(path)
	if matchesAny(blacklist, path) {
		set.MarkBlacklisted(path)
		c.Logger.Verbosef("Blacklisted %s", path)
		return false
	}
	return true
}

func matchesAny(patterns []*regexp.Regexp, path string) bool {
	for _, pattern := range patterns {
		if pattern.MatchString(path) {
			return true
		}
	}
	return false
}

// enumerate returns the absolute candidate paths a single input pattern names.
func (c *Collector) enumerate(pattern string, skipLinks bool) ([]string, error) {
	if domain.IsWildcard(pattern, filepath.Separator) {
		dir := pattern[:len(pattern)-1]
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, appErrors.Wrap(appErrors.CollectionError, "resolve", dir, err)
		}
		infos, err := c.FS.ReadDir(abs)
		if err != nil {
			return nil, appErrors.Wrap(appErrors.CollectionError, "list", abs, err)
		}

		paths := make([]string, 0, len(infos))
		for _, info := range infos {
			path := filepath.Join(abs, info.Name())
			reason, err := c.classify(path, info, skipLinks)
			if err != nil {
				return nil, err
			}
			if reason != keep {
				c.Logger.Verbosef("Ignored %s (%s)", path, reason)
				continue
			}
			paths = append(paths, path)
		}
		return paths, nil
	}

	abs, err := filepath.Abs(pattern)
	if err != nil {
		return nil, appErrors.Wrap(appErrors.CollectionError, "resolve", pattern, err)
	}
	info, err := c.FS.Lstat(abs)
	if err != nil {
		return nil, appErrors.Wrap(appErrors.CollectionError, "stat", abs, err)
	}
	reason, err := c.classify(abs, info, skipLinks)
	if err != nil {
		return nil, err
	}
	switch reason {
	case keep:
		return []string{abs}, nil
	case skipSameDirLink:
		c.Logger.Verbosef("Ignored %s (%s)", abs, reason)
		return nil, nil
	case skipDirectory:
		return nil, appErrors.New(appErrors.CollectionError, "collect", abs,
			"is a directory, use %s to include its files", filepath.Join(abs, "*"))
	default:
		return nil, appErrors.New(appErrors.CollectionError, "collect", abs, "%s", reason)
	}
}

// classify decides whether path, described by its lstat info, is a collectable file.
func (c *Collector) classify(path string, info fs.FileInfo, skipLinks bool) (skipReason, error) {
	if info.Mode()&fs.ModeSymlink != 0 {
		if skipLinks {
			same, err := c.linksIntoOwnDir(path)
			if err != nil {
				return keep, err
			}
			if same {
				return skipSameDirLink, nil
			}
		}
		resolved, err := c.FS.Stat(path)
		if err != nil {
			return keep, appErrors.Wrap(appErrors.CollectionError, "stat", path, err)
		}
		info = resolved
	}
	if info.IsDir() {
		return skipDirectory, nil
	}
	if !info.Mode().IsRegular() {
		return skipIrregular, nil
	}
	return keep, nil
}

func (c *Collector) linksIntoOwnDir(path string) (bool, error) {
	dest, err := c.FS.Readlink(path)
	if err != nil {
		return false, appErrors.Wrap(appErrors.CollectionError, "readlink", path, err)
	}
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(filepath.Dir(path), dest)
	}
	return filepath.Dir(filepath.Clean(dest)) == filepath.Dir(path), nil
}
