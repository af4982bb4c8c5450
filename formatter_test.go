package ringlog

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullOptions() FormatOptions {
	return FormatOptions{
		ShowTimestamp:      true,
		ShowThreadID:       true,
		ShowSourceLocation: true,
		ShowModuleName:     true,
		ShowFullPath:       false,
		TimestampFormat:    "2006-01-02 15:04:05.000",
	}
}

// TestFormatFieldsScenario verifies that with all show_* true and
// show_full_path=false, a Record from file /a/b/c.x line 7, module M,
// INFO, message "hello" matches the documented output format.
func TestFormatFieldsScenario(t *testing.T) {
	rec := Record{
		Message:   "hello",
		Level:     LevelInfo,
		Timestamp: time.Now(),
		Context: Context{
			Module:     "M",
			File:       "/a/b/c.x",
			Line:       7,
			ProducerID: 42,
		},
	}

	buf := Format(rec, fullOptions())
	defer releaseFormatBuf(buf)

	re := regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3}\] \[INFO\] \[T-\d+\] \[M\] \[c\.x:7\] hello$`)
	line := string(buf.B)
	line = line[:len(line)-1] // strip trailing newline before matching $
	assert.Regexp(t, re, line)
}

// TestFormatIsStableModuloTimestamp verifies that for fixed configuration
// and Record, Format's output is bit-identical across runs except for the
// timestamp field.
func TestFormatIsStableModuloTimestamp(t *testing.T) {
	rec := Record{
		Message:   "steady state",
		Level:     LevelWarning,
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Context:   Context{Module: "core", File: "x.go", Line: 10, ProducerID: 1},
	}
	opts := fullOptions()

	first := Format(rec, opts)
	second := Format(rec, opts)
	defer releaseFormatBuf(first)
	defer releaseFormatBuf(second)

	assert.Equal(t, string(first.B), string(second.B))
}

func TestFormatOmitsDisabledFields(t *testing.T) {
	rec := Record{
		Message:   "msg",
		Level:     LevelInfo,
		Timestamp: time.Now(),
		Context:   Context{Module: "M", File: "f.go", Line: 1, ProducerID: 1},
	}
	opts := FormatOptions{TimestampFormat: "2006-01-02 15:04:05.000"}

	buf := Format(rec, opts)
	defer releaseFormatBuf(buf)

	line := string(buf.B)
	require.Equal(t, "[INFO] msg\n", line)
}

func TestFormatShowFullPath(t *testing.T) {
	rec := Record{
		Message:   "msg",
		Level:     LevelInfo,
		Timestamp: time.Now(),
		Context:   Context{File: "/a/b/c.x", Line: 7, ProducerID: 1},
	}
	opts := fullOptions()
	opts.ShowModuleName = false
	opts.ShowFullPath = true

	buf := Format(rec, opts)
	defer releaseFormatBuf(buf)

	assert.Contains(t, string(buf.B), "[/a/b/c.x:7]")
}

func TestFormatColorWrapsWholeLine(t *testing.T) {
	rec := Record{Message: "m", Level: LevelError, Timestamp: time.Now()}
	opts := FormatOptions{TimestampFormat: "2006-01-02", Color: true}

	buf := Format(rec, opts)
	defer releaseFormatBuf(buf)

	line := string(buf.B)
	require.True(t, strings.HasPrefix(line, "\033[31m"), "color escape must precede the whole line: %q", line)
	require.True(t, strings.HasSuffix(line, ansiReset+"\n"), "reset must close the line just before the trailing newline: %q", line)

	// Without color, the same fields must render with none of the escapes.
	plain := Format(rec, FormatOptions{TimestampFormat: "2006-01-02"})
	defer releaseFormatBuf(plain)
	assert.NotContains(t, string(plain.B), "\033[")
}
