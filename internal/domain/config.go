package domain

import (
	"net/url"
	"regexp"
	"strings"
)

// Configuration is the resolved, read-only input of a single upload run.
type Configuration struct {
	InputPatterns []string
	Whitelist     []*regexp.Regexp
	Blacklist     []*regexp.Regexp
	Target        Target
	// Replication is forwarded to sinks that support it. Zero means backend default.
	Replication int
	// Threshold is the minimum number of files the filtered set must hold.
	Threshold int
	// SkipSameDirSymlinks drops symlinks that point back into their own directory.
	SkipSameDirSymlinks bool
	// CompressionLevel is a gzip level; zero selects the default.
	CompressionLevel int
}

// Target is the destination of the published archive.
type Target struct {
	URI   *url.URL
	Alias string
}

func (t Target) String() string {
	if t.URI == nil {
		return ""
	}
	return t.URI.String()
}

// Link returns the URI with its alias fragment, the form cluster nodes are configured with.
func (t Target) Link() string {
	if t.Alias == "" {
		return t.String()
	}
	return t.String() + "#" + t.Alias
}

// Scheme returns the lower-cased URI scheme, "file" when none is set.
func (t Target) Scheme() string {
	if t.URI == nil || t.URI.Scheme == "" {
		return "file"
	}
	return strings.ToLower(t.URI.Scheme)
}

// IsWildcard reports whether pattern selects every direct child of a directory.
func IsWildcard(pattern string, sep byte) bool {
	return len(pattern) >= 2 && pattern[len(pattern)-1] == '*' && pattern[len(pattern)-2] == sep
}

// CompileFullMatch compiles pattern so that it must match an entire path.
func CompileFullMatch(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(`^(?:` + pattern + `)$`)
}

// HasArchiveSuffix reports whether the target path names a gzip-compressed tarball.
func (t Target) HasArchiveSuffix() bool {
	if t.URI == nil {
		return false
	}
	return strings.HasSuffix(t.URI.Path, ".tar.gz") || strings.HasSuffix(t.URI.Path, ".tgz")
}
