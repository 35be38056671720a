package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZeroLoggerIsSilent(t *testing.T) {
	var l Logger
	l.Infof("hello %d", 1)
	l.Warnf("warn")
	l.Verbosef("debug")
	l.Measure("noop")()
}

func TestVerbosefOnlyWhenVerbose(t *testing.T) {
	var quiet bytes.Buffer
	New(&quiet, false).Verbosef("scanned %d", 3)
	assert.Empty(t, quiet.String())

	var loud bytes.Buffer
	New(&loud, true).Verbosef("scanned %d", 3)
	assert.Contains(t, loud.String(), "scanned 3")
}

func TestWithAddsFields(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).With("target", "file:///x.tar.gz").Infof("published")
	out := buf.String()
	assert.Contains(t, out, "published")
	assert.Contains(t, out, "target=file:///x.tar.gz")
}
