package sink

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// HTTP streams the archive as the body of a PUT request, for object stores
// reachable through pre-signed URLs.
type HTTP struct {
	Client *http.Client
}

func (h HTTP) Open(ctx context.Context, uri *url.URL, replication int) (io.WriteCloser, error) {
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}

	pr, pw := io.Pipe()
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uri.String(), pr)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/gzip")

	done := make(chan error, 1)
	go func() {
		done <- send(client, req, pr)
	}()
	return &httpWriter{pw: pw, done: done}, nil
}

func send(client *http.Client, req *http.Request, body *io.PipeReader) error {
	resp, err := client.Do(req)
	if err != nil {
		body.CloseWithError(err)
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("upload failed with status %s", resp.Status)
		body.CloseWithError(err)
		return err
	}
	body.Close()
	return nil
}

type httpWriter struct {
	pw   *io.PipeWriter
	done chan error
}

func (w *httpWriter) Write(p []byte) (int, error) {
	return w.pw.Write(p)
}

// Close ends the request body and waits for the server's response.
func (w *httpWriter) Close() error {
	w.pw.Close()
	return <-w.done
}

// CloseWithError fails the request body with err so the transport drops the
// connection before the body is terminated and the server never sees a
// complete upload.
func (w *httpWriter) CloseWithError(err error) error {
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	w.pw.CloseWithError(err)
	<-w.done
	return nil
}
