package ringlog

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

// fmtErrorf wraps fmt.Errorf with the package's consistent error prefix.
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "ringlog: ") {
		format = "ringlog: " + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors aggregates zero or more errors (some possibly nil) into a
// single error via multierr, so downstream callers can still use
// errors.Is/errors.As against any of the originals.
func combineErrors(errs ...error) error {
	return multierr.Combine(errs...)
}

// basename returns the final path component unless full is requested, in
// which case the path is returned unchanged.
func basename(path string, full bool) string {
	if full {
		return path
	}
	return filepath.Base(path)
}

// goroutineID extracts the calling goroutine's numeric ID by parsing the
// header of runtime.Stack's output ("goroutine 123 [running]:"). This is
// the same best-effort, no-cgo technique a number of Go tracing libraries
// use to approximate thread-local identity; it is never exposed as a
// stable API guarantee, only used internally to key the package-level
// convenience producer cache (see producer.go).
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	s := string(buf[:n])
	const prefix = "goroutine "
	if !strings.HasPrefix(s, prefix) {
		return 0
	}
	s = s[len(prefix):]
	if idx := strings.IndexByte(s, ' '); idx >= 0 {
		s = s[:idx]
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return id
}
