package errors

import (
	stderrors "errors"
	"fmt"
)

type Kind string

const (
	ConfigurationError Kind = "configuration_error"
	CollectionError    Kind = "collection_error"
	BuildError         Kind = "build_error"
	PublishError       Kind = "publish_error"
	Internal           Kind = "internal"
)

// UploaderError is the single failure category surfaced by the upload pipeline.
type UploaderError struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *UploaderError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UploaderError) Unwrap() error {
	return e.Err
}

func Wrap(kind Kind, op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &UploaderError{
		Kind: kind,
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// New creates an UploaderError without an underlying cause.
func New(kind Kind, op, path, format string, args ...any) error {
	return &UploaderError{
		Kind: kind,
		Op:   op,
		Path: path,
		Err:  fmt.Errorf(format, args...),
	}
}

// KindOf returns the kind of the outermost UploaderError in err's chain, or Internal.
func KindOf(err error) Kind {
	var appErr *UploaderError
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

func UserMessage(err error) string {
	var appErr *UploaderError
	if !stderrors.As(err, &appErr) {
		return err.Error()
	}
	switch appErr.Kind {
	case ConfigurationError:
		return fmt.Sprintf("Invalid configuration: %v", appErr.Err)
	case CollectionError:
		if appErr.Path != "" {
			return fmt.Sprintf("Collecting classpath failed at %s: %v", appErr.Path, appErr.Err)
		}
		return fmt.Sprintf("Collecting classpath failed: %v", appErr.Err)
	case BuildError:
		return fmt.Sprintf("Building archive failed at %s: %v", appErr.Path, appErr.Err)
	case PublishError:
		return fmt.Sprintf("Publishing to %s failed: %v", appErr.Path, appErr.Err)
	default:
		return fmt.Sprintf("Unexpected error: %v", appErr.Err)
	}
}
