package app

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"fwupload/internal/domain"
)

type archived struct {
	Name    string
	Size    int64
	Content string
}

// readArchive decodes a gzip tarball with the standard library readers.
func readArchive(t *testing.T, r io.Reader) []archived {
	t.Helper()
	gz, err := gzip.NewReader(r)
	require.NoError(t, err)
	defer gz.Close()

	var out []archived
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		content, err := io.ReadAll(tr)
		require.NoError(t, err)
		out = append(out, archived{Name: hdr.Name, Size: hdr.Size, Content: string(content)})
	}
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func patterns(t *testing.T, exprs ...string) []*regexp.Regexp {
	t.Helper()
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		re, err := domain.CompileFullMatch(expr)
		require.NoError(t, err)
		out = append(out, re)
	}
	return out
}

func wildcard(dir string) string {
	return dir + string(filepath.Separator) + "*"
}

// memorySinks records everything written per target.
type memorySinks struct {
	written     map[string]*bytes.Buffer
	replication map[string]int
	openErr     error
	writeErr    error
	closeErr    error
	last        *memorySink
}

func newMemorySinks() *memorySinks {
	return &memorySinks{written: map[string]*bytes.Buffer{}, replication: map[string]int{}}
}

func (m *memorySinks) Open(ctx context.Context, target domain.Target, replication int) (io.WriteCloser, error) {
	if m.openErr != nil {
		return nil, m.openErr
	}
	buf := &bytes.Buffer{}
	m.written[target.String()] = buf
	m.replication[target.String()] = replication
	m.last = &memorySink{buf: buf, parent: m}
	return m.last, nil
}

type memorySink struct {
	buf     *bytes.Buffer
	parent  *memorySinks
	closed  bool
	aborted error
}

func (s *memorySink) Write(p []byte) (int, error) {
	if s.parent.writeErr != nil {
		return 0, s.parent.writeErr
	}
	return s.buf.Write(p)
}

func (s *memorySink) Close() error {
	s.closed = true
	return s.parent.closeErr
}

func (s *memorySink) CloseWithError(err error) error {
	s.aborted = err
	return nil
}
