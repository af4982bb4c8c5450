package ringlog

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleSinkWritesToStdoutByDefault(t *testing.T) {
	cs := newConsoleSink("stdout")
	assert.Same(t, os.Stdout, cs.w)
}

func TestConsoleSinkWritesToStderrWhenConfigured(t *testing.T) {
	cs := newConsoleSink("stderr")
	assert.Same(t, os.Stderr, cs.w)
}

func TestConsoleSinkWriteUsesConfiguredWriter(t *testing.T) {
	var buf bytes.Buffer
	cs := &consoleSink{w: &buf}
	require.NoError(t, cs.write([]byte("hello\n")))
	assert.Equal(t, "hello\n", buf.String())
}

func TestDiagSinkReportWritesToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "diag.log")
	ds, err := newDiagSink(path)
	require.NoError(t, err)
	defer ds.close()

	ds.report(errors.New("boom"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "boom")
}
