package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"os/user"

	"github.com/colinmarc/hdfs/v2"
	"github.com/colinmarc/hdfs/v2/hadoopconf"
)

const defaultNamenodePort = "8020"

// HDFS writes to a Hadoop distributed filesystem. The URI host names the
// namenode; without one the namenodes come from HADOOP_CONF_DIR.
type HDFS struct {
	User string
}

func (h *HDFS) Open(ctx context.Context, uri *url.URL, replication int) (io.WriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts, err := h.clientOptions(uri)
	if err != nil {
		return nil, err
	}
	client, err := hdfs.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("connect to namenode: %w", err)
	}

	path := uri.Path
	if _, err := client.Stat(path); err == nil {
		if err := client.Remove(path); err != nil {
			client.Close()
			return nil, fmt.Errorf("replace existing %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		client.Close()
		return nil, err
	}

	writer, err := createFile(client, path, replication)
	if err != nil {
		client.Close()
		return nil, err
	}
	return &hdfsWriter{FileWriter: writer, client: client, path: path}, nil
}

// fileCreator is the part of *hdfs.Client used to create the destination.
type fileCreator interface {
	ServerDefaults() (hdfs.ServerDefaults, error)
	Create(name string) (*hdfs.FileWriter, error)
	CreateFile(name string, replication int, blockSize int64, perm os.FileMode) (*hdfs.FileWriter, error)
}

// createFile keeps the cluster's block size when an explicit replication
// factor requires the full CreateFile call.
func createFile(c fileCreator, path string, replication int) (*hdfs.FileWriter, error) {
	if replication <= 0 {
		return c.Create(path)
	}
	defaults, err := c.ServerDefaults()
	if err != nil {
		return nil, fmt.Errorf("read server defaults: %w", err)
	}
	return c.CreateFile(path, replication, defaults.BlockSize, 0o644)
}

func (h *HDFS) clientOptions(uri *url.URL) (hdfs.ClientOptions, error) {
	var opts hdfs.ClientOptions
	if uri.Host == "" {
		conf, err := hadoopconf.LoadFromEnvironment()
		if err != nil {
			return opts, fmt.Errorf("load hadoop configuration: %w", err)
		}
		opts = hdfs.ClientOptionsFromConf(conf)
		if len(opts.Addresses) == 0 {
			return opts, fmt.Errorf("hdfs URI %s names no namenode and none is configured", uri)
		}
	} else {
		addr := uri.Host
		if uri.Port() == "" {
			addr = net.JoinHostPort(uri.Hostname(), defaultNamenodePort)
		}
		opts.Addresses = []string{addr}
	}

	opts.User = h.User
	if opts.User == "" {
		opts.User = os.Getenv("HADOOP_USER_NAME")
	}
	if opts.User == "" {
		if u, err := user.Current(); err == nil {
			opts.User = u.Username
		}
	}
	return opts, nil
}

type hdfsWriter struct {
	*hdfs.FileWriter
	client *hdfs.Client
	path   string
}

func (w *hdfsWriter) Close() error {
	err := w.FileWriter.Close()
	if closeErr := w.client.Close(); err == nil {
		err = closeErr
	}
	return err
}

// CloseWithError deletes the partially written file instead of leaving it
// at the destination path.
func (w *hdfsWriter) CloseWithError(cause error) error {
	w.FileWriter.Close()
	err := w.client.Remove(w.path)
	if closeErr := w.client.Close(); err == nil {
		err = closeErr
	}
	return err
}
