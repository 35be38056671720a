package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fwupload/internal/domain"
	appErrors "fwupload/internal/errors"
	fsinfra "fwupload/internal/infra/fs"
)

// classpathTree lays out A/{a.jar,b.jar,c.jar,d.txt} and B/{d.jar,e.txt}.
func classpathTree(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()
	dirA := filepath.Join(root, "A")
	dirB := filepath.Join(root, "B")
	for _, name := range []string{"a.jar", "b.jar", "c.jar", "d.txt"} {
		writeFile(t, filepath.Join(dirA, name), "")
	}
	for _, name := range []string{"d.jar", "e.txt"} {
		writeFile(t, filepath.Join(dirB, name), "")
	}
	return dirA, dirB
}

func TestCollectAppliesWhitelistThenBlacklist(t *testing.T) {
	dirA, dirB := classpathTree(t)
	collector := Collector{FS: fsinfra.OS()}

	files, err := collector.Collect(context.Background(), domain.Configuration{
		InputPatterns: []string{wildcard(dirA), wildcard(dirB)},
		Whitelist:     patterns(t, `.*a\.jar`, `.*b\.jar`, `.*d\.jar`),
		Blacklist:     patterns(t, `.*b\.jar`),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, files.Len())
	assert.True(t, files.Contains(filepath.Join(dirA, "a.jar")))
	assert.False(t, files.Contains(filepath.Join(dirA, "b.jar")))
	assert.True(t, files.Contains(filepath.Join(dirB, "d.jar")))
	assert.Len(t, files.Whitelisted(), 3)
	assert.Equal(t, []string{filepath.Join(dirA, "b.jar")}, files.Blacklisted())
}

func TestCollectKeepsListingOrder(t *testing.T) {
	dirA, dirB := classpathTree(t)
	collector := Collector{FS: fsinfra.OS()}

	files, err := collector.Collect(context.Background(), domain.Configuration{
		InputPatterns: []string{wildcard(dirB), wildcard(dirA)},
		Whitelist:     patterns(t, `.*\.jar`),
	})
	require.NoError(t, err)

	want := []string{
		filepath.Join(dirB, "d.jar"),
		filepath.Join(dirA, "a.jar"),
		filepath.Join(dirA, "b.jar"),
		filepath.Join(dirA, "c.jar"),
	}
	if diff := cmp.Diff(want, files.Files()); diff != "" {
		t.Fatalf("unexpected files (-want +got):\n%s", diff)
	}
}

func TestCollectDeduplicatesOverlappingPatterns(t *testing.T) {
	dirA, _ := classpathTree(t)
	collector := Collector{FS: fsinfra.OS()}
	jar := filepath.Join(dirA, "a.jar")

	files, err := collector.Collect(context.Background(), domain.Configuration{
		InputPatterns: []string{jar, wildcard(dirA), filepath.Join(dirA, ".", "a.jar")},
		Whitelist:     patterns(t, `.*a\.jar`),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{jar}, files.Files())
	assert.Equal(t, []string{jar}, files.Whitelisted())
}

func TestCollectEmptyWhitelistMatchesEverything(t *testing.T) {
	dirA, _ := classpathTree(t)
	collector := Collector{FS: fsinfra.OS()}

	files, err := collector.Collect(context.Background(), domain.Configuration{
		InputPatterns: []string{wildcard(dirA)},
		Blacklist:     patterns(t, `.*\.txt`),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, files.Len())
	assert.Len(t, files.Whitelisted(), 4)
	assert.Len(t, files.Blacklisted(), 1)
}

func TestCollectMatchesWholePath(t *testing.T) {
	dirA, _ := classpathTree(t)
	collector := Collector{FS: fsinfra.OS()}

	files, err := collector.Collect(context.Background(), domain.Configuration{
		InputPatterns: []string{wildcard(dirA)},
		Whitelist:     patterns(t, `a\.jar`),
	})
	require.NoError(t, err)
	assert.Zero(t, files.Len())
}

func TestCollectIgnoresSubdirectories(t *testing.T) {
	mem := fsinfra.Memory()
	require.NoError(t, afero.WriteFile(mem.Base, "/lib/a.jar", []byte("a"), 0o644))
	require.NoError(t, afero.WriteFile(mem.Base, "/lib/nested/b.jar", []byte("b"), 0o644))

	collector := Collector{FS: mem}
	files, err := collector.Collect(context.Background(), domain.Configuration{
		InputPatterns: []string{"/lib/*"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/lib/a.jar"}, files.Files())
}

func TestCollectFailures(t *testing.T) {
	dirA, _ := classpathTree(t)

	cases := map[string]struct {
		cfg  domain.Configuration
		kind appErrors.Kind
	}{
		"no input patterns": {
			cfg:  domain.Configuration{},
			kind: appErrors.ConfigurationError,
		},
		"missing wildcard directory": {
			cfg:  domain.Configuration{InputPatterns: []string{wildcard(filepath.Join(dirA, "missing"))}},
			kind: appErrors.CollectionError,
		},
		"missing literal file": {
			cfg:  domain.Configuration{InputPatterns: []string{filepath.Join(dirA, "missing.jar")}},
			kind: appErrors.CollectionError,
		},
		"literal directory": {
			cfg:  domain.Configuration{InputPatterns: []string{dirA}},
			kind: appErrors.CollectionError,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			collector := Collector{FS: fsinfra.OS()}
			_, err := collector.Collect(context.Background(), tc.cfg)
			require.Error(t, err)
			assert.Equal(t, tc.kind, appErrors.KindOf(err))
		})
	}
}

func TestCollectRejectsBasenameCollisions(t *testing.T) {
	root := t.TempDir()
	first := writeFile(t, filepath.Join(root, "one", "common.jar"), "1")
	writeFile(t, filepath.Join(root, "two", "common.jar"), "2")

	collector := Collector{FS: fsinfra.OS()}
	_, err := collector.Collect(context.Background(), domain.Configuration{
		InputPatterns: []string{wildcard(filepath.Join(root, "one")), wildcard(filepath.Join(root, "two"))},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.CollectionError, appErrors.KindOf(err))
	assert.Contains(t, err.Error(), first)
}

func TestCollectSkipsSymlinksIntoSameDirectory(t *testing.T) {
	root := t.TempDir()
	lib := filepath.Join(root, "lib")
	coreJar := writeFile(t, filepath.Join(lib, "core-1.0.jar"), "core")
	other := writeFile(t, filepath.Join(root, "ext", "ext-2.0.jar"), "ext")
	if err := os.Symlink("core-1.0.jar", filepath.Join(lib, "core.jar")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	require.NoError(t, os.Symlink(other, filepath.Join(lib, "ext.jar")))

	collector := Collector{FS: fsinfra.OS()}

	files, err := collector.Collect(context.Background(), domain.Configuration{
		InputPatterns:       []string{wildcard(lib)},
		SkipSameDirSymlinks: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{coreJar, filepath.Join(lib, "ext.jar")}, files.Files())

	files, err = collector.Collect(context.Background(), domain.Configuration{
		InputPatterns: []string{wildcard(lib)},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, files.Len())
}

func TestCollectHonoursCancellation(t *testing.T) {
	dirA, _ := classpathTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	collector := Collector{FS: fsinfra.OS()}
	_, err := collector.Collect(ctx, domain.Configuration{InputPatterns: []string{wildcard(dirA)}})
	assert.ErrorIs(t, err, context.Canceled)
}
