package logging

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Logger provides leveled logging and lightweight timing helpers.
// The zero value discards everything.
type Logger struct {
	l       *log.Logger
	Verbose bool
}

func New(writer io.Writer, verbose bool) Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	l := log.NewWithOptions(writer, log.Options{
		Prefix:          "fwupload",
		Level:           level,
		ReportTimestamp: verbose,
		TimeFormat:      time.TimeOnly,
	})
	return Logger{l: l, Verbose: verbose}
}

// With returns a logger that adds keyvals to every record.
func (l Logger) With(keyvals ...any) Logger {
	if l.l == nil {
		return l
	}
	return Logger{l: l.l.With(keyvals...), Verbose: l.Verbose}
}

func (l Logger) Infof(format string, args ...any) {
	if l.l == nil {
		return
	}
	l.l.Infof(format, args...)
}

func (l Logger) Warnf(format string, args ...any) {
	if l.l == nil {
		return
	}
	l.l.Warnf(format, args...)
}

func (l Logger) Verbosef(format string, args ...any) {
	if l.l == nil || !l.Verbose {
		return
	}
	l.l.Debugf(format, args...)
}

// Measure returns a stop function that logs the elapsed time when called.
func (l Logger) Measure(label string) func() {
	if !l.Verbose {
		return func() {}
	}
	start := time.Now()
	return func() {
		elapsed := time.Since(start).Round(time.Millisecond)
		l.Verbosef("%s took %s", label, elapsed)
	}
}
