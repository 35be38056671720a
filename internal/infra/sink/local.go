package sink

import (
	"context"
	"fmt"
	"io"
	"net/url"

	fsinfra "fwupload/internal/infra/fs"
)

// Local writes to a file on the host. The destination directory must exist.
type Local struct {
	FS fsinfra.FS
}

func (l Local) Open(ctx context.Context, uri *url.URL, replication int) (io.WriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if uri.Host != "" && uri.Host != "localhost" {
		return nil, fmt.Errorf("file URI %s names remote host %q", uri, uri.Host)
	}
	if uri.Path == "" {
		return nil, fmt.Errorf("file URI %s has no path", uri)
	}
	return l.FS.Create(uri.Path)
}
