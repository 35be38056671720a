// Package sink opens writable destinations for published archives, choosing
// the backend by URI scheme.
package sink

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"

	"fwupload/internal/domain"
	fsinfra "fwupload/internal/infra/fs"
)

// Opener opens a byte sink for a URI. Backends without a notion of
// replication ignore the hint.
type Opener interface {
	Open(ctx context.Context, uri *url.URL, replication int) (io.WriteCloser, error)
}

type OpenerFunc func(ctx context.Context, uri *url.URL, replication int) (io.WriteCloser, error)

func (f OpenerFunc) Open(ctx context.Context, uri *url.URL, replication int) (io.WriteCloser, error) {
	return f(ctx, uri, replication)
}

type Registry struct {
	openers map[string]Opener
}

func NewRegistry() *Registry {
	return &Registry{openers: make(map[string]Opener)}
}

// Default registers the local, HDFS and HTTP backends.
func Default(local fsinfra.FS) *Registry {
	r := NewRegistry()
	r.Register("file", Local{FS: local})
	r.Register("hdfs", &HDFS{})
	httpSink := HTTP{}
	r.Register("http", httpSink)
	r.Register("https", httpSink)
	return r
}

func (r *Registry) Register(scheme string, opener Opener) {
	r.openers[strings.ToLower(scheme)] = opener
}

// Schemes lists registered schemes in lexical order.
func (r *Registry) Schemes() []string {
	schemes := make([]string, 0, len(r.openers))
	for scheme := range r.openers {
		schemes = append(schemes, scheme)
	}
	sort.Strings(schemes)
	return schemes
}

func (r *Registry) Open(ctx context.Context, target domain.Target, replication int) (io.WriteCloser, error) {
	if target.URI == nil {
		return nil, fmt.Errorf("no target URI")
	}
	opener, ok := r.openers[target.Scheme()]
	if !ok {
		return nil, fmt.Errorf("unsupported scheme %q (supported: %s)", target.Scheme(), strings.Join(r.Schemes(), ", "))
	}
	return opener.Open(ctx, target.URI, replication)
}
