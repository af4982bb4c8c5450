package ringlog

import (
	"testing"
	"time"
)

const testShutdownTimeout = 5 * time.Second

// testConfig returns a Config wired to a fresh temp directory, console
// output disabled, and TRACE minimum so tests can assert on every
// submitted Record without fighting the default severity filter.
func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.LogDir = t.TempDir()
	cfg.ConsoleOutput = false
	cfg.MinLevel = LevelTrace
	return cfg
}

// newTestFileSink builds a fileSink against a throwaway loggerStats, for
// tests that exercise the sink directly without a whole Logger.
func newTestFileSink(t *testing.T, cfg *Config) *fileSink {
	t.Helper()
	fs, err := newFileSink(cfg, &loggerStats{})
	if err != nil {
		t.Fatalf("newFileSink: %v", err)
	}
	return fs
}

func drainRingDirectly(r *ProducerRing) []Record {
	var out []Record
	for {
		rec, ok := r.dequeue()
		if !ok {
			return out
		}
		out = append(out, rec)
	}
}
