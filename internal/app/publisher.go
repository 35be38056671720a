package app

import (
	"context"
	"io"

	"fwupload/internal/domain"
	appErrors "fwupload/internal/errors"
	"fwupload/internal/logging"
)

// Publisher writes archive bytes to a target resolved by URI scheme.
type Publisher struct {
	Sinks  SinkOpener
	Logger logging.Logger
}

// Open returns the destination sink for target. Callers must close it.
func (p *Publisher) Open(ctx context.Context, target domain.Target, replication int) (io.WriteCloser, error) {
	if p.Sinks == nil {
		return nil, appErrors.New(appErrors.Internal, "publish", "", "publisher requires Sinks")
	}
	sink, err := p.Sinks.Open(ctx, target, replication)
	if err != nil {
		return nil, appErrors.Wrap(appErrors.PublishError, "open", target.String(), err)
	}
	p.Logger.Verbosef("Opened %s (replication %d)", target, replication)
	return sink, nil
}

// Publish copies src to target and closes the destination. On failure the
// sink is aborted when it supports it; otherwise a partially written
// destination may be left behind.
func (p *Publisher) Publish(ctx context.Context, src io.Reader, target domain.Target, replication int) (int64, error) {
	sink, err := p.Open(ctx, target, replication)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(sink, src)
	if err != nil {
		p.abort(sink, err)
		return n, appErrors.Wrap(appErrors.PublishError, "write", target.String(), err)
	}
	if err := sink.Close(); err != nil {
		return n, appErrors.Wrap(appErrors.PublishError, "close", target.String(), err)
	}
	p.Logger.Verbosef("Published %d bytes to %s", n, target)
	return n, nil
}

// abort releases sink after a failed write without committing its content.
func (p *Publisher) abort(sink io.WriteCloser, cause error) {
	var err error
	if a, ok := sink.(Aborter); ok {
		err = a.CloseWithError(cause)
	} else {
		err = sink.Close()
	}
	if err != nil {
		p.Logger.Verbosef("Discarding sink after failure: %v", err)
	}
}

// countingWriter tracks bytes written to a sink and remembers the first sink failure.
type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	if err != nil && c.err == nil {
		c.err = err
	}
	return n, err
}
