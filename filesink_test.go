package ringlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileSinkConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.LogDir = t.TempDir()
	cfg.FilePrefix = "test"
	cfg.MaxFileBytes = 256
	cfg.MaxFiles = 3
	cfg.RetentionWorkers = 2
	return cfg
}

func TestFileSinkWriteAppends(t *testing.T) {
	cfg := newTestFileSinkConfig(t)
	fs := newTestFileSink(t, cfg)
	defer fs.close()

	require.NoError(t, fs.write([]byte("line one\n")))
	require.NoError(t, fs.write([]byte("line two\n")))
	require.NoError(t, fs.sync())

	data, err := os.ReadFile(fs.staticPath())
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", string(data))
}

// TestFileSinkRotatesAtMaxBytes verifies that writing past
// max_file_bytes rotates the active file into a timestamped archive.
func TestFileSinkRotatesAtMaxBytes(t *testing.T) {
	cfg := newTestFileSinkConfig(t)
	fs := newTestFileSink(t, cfg)
	defer fs.close()

	line := strings.Repeat("x", 100) + "\n"
	for i := 0; i < 10; i++ {
		require.NoError(t, fs.write([]byte(line)))
	}
	require.NoError(t, fs.sync())

	entries, err := os.ReadDir(cfg.LogDir)
	require.NoError(t, err)
	var archives int
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), cfg.FilePrefix+"_") {
			archives++
		}
	}
	assert.Greater(t, archives, 0)
}

// TestFileSinkRetentionKeepsExactlyMaxFilesTotal gives the bounded
// retention worker pool time to run and checks the directory converges to
// exactly max_files files matching the prefix — the still-open active file
// counts toward that total alongside the archives, it is not kept on top
// of it.
func TestFileSinkRetentionKeepsExactlyMaxFilesTotal(t *testing.T) {
	cfg := newTestFileSinkConfig(t)
	cfg.MaxFiles = 2
	fs := newTestFileSink(t, cfg)

	line := strings.Repeat("y", 100) + "\n"
	for i := 0; i < 40; i++ {
		require.NoError(t, fs.write([]byte(line)))
	}
	defer fs.close()

	// Retention dispatches onto the bounded worker pool off the hot path;
	// give it a moment to converge rather than assuming close() drains it.
	require.Eventually(t, func() bool {
		entries, err := os.ReadDir(cfg.LogDir)
		if err != nil {
			return false
		}
		var total int
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), cfg.FilePrefix) {
				total++
			}
		}
		return total == cfg.MaxFiles
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCompressFileProducesValidGzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "archive.log")
	require.NoError(t, os.WriteFile(path, []byte("payload\n"), 0o644))

	gzPath, err := compressFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(gzPath, ".gz"))

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "original file should be removed after compression")

	f, err := os.Open(gzPath)
	require.NoError(t, err)
	defer f.Close()
	gr, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gr.Close()
}

func TestFileSinkReopenSwitchesDirAndPrefix(t *testing.T) {
	cfg := newTestFileSinkConfig(t)
	fs := newTestFileSink(t, cfg)
	defer fs.close()

	require.NoError(t, fs.write([]byte("before\n")))

	newDir := t.TempDir()
	require.NoError(t, fs.reopen(newDir, "renamed"))
	require.NoError(t, fs.write([]byte("after\n")))
	require.NoError(t, fs.sync())

	data, err := os.ReadFile(filepath.Join(newDir, "renamed.log"))
	require.NoError(t, err)
	assert.Equal(t, "after\n", string(data))
}

// TestFileSinkDisablesAfterUnrecoverableWriteFailure closes the
// underlying file out from under the sink to force a write failure, then
// checks the sink retries once, disables itself, and reports
// ErrFileSinkDisabled rather than retrying forever.
func TestFileSinkDisablesAfterUnrecoverableWriteFailure(t *testing.T) {
	cfg := newTestFileSinkConfig(t)
	fs := newTestFileSink(t, cfg)
	defer fs.close()

	require.NoError(t, fs.write([]byte("ok\n")))
	require.NoError(t, fs.file.Close())

	err := fs.write([]byte("boom\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileSinkDisabled)
	assert.True(t, fs.disabled)

	// Once disabled, further writes are dropped (and counted) instead of
	// failing again.
	require.NoError(t, fs.write([]byte("dropped\n")))
	assert.Equal(t, uint64(1), fs.stats.droppedRecords.Load())
}

// TestFileSinkRetentionEnforcesMaxTotalBytes verifies the second
// retention pass keeps trimming archives beyond what max_files alone
// would remove once the directory exceeds the configured byte cap.
// maxTotalBytes is set directly (bypassing MB-granularity rounding) so a
// handful of small records is enough to exercise the size cap.
func TestFileSinkRetentionEnforcesMaxTotalBytes(t *testing.T) {
	cfg := newTestFileSinkConfig(t)
	cfg.MaxFiles = 100 // large enough that only the size cap trims anything
	fs := newTestFileSink(t, cfg)
	defer fs.close()
	fs.maxTotalBytes = 300

	line := strings.Repeat("z", 100) + "\n"
	for i := 0; i < 40; i++ {
		require.NoError(t, fs.write([]byte(line)))
	}

	require.Eventually(t, func() bool {
		entries, err := fs.collectRetentionEntries()
		if err != nil {
			return false
		}
		var total int64
		for _, e := range entries {
			total += e.size
		}
		// The active file is never removed, so the floor is either the
		// byte cap or "nothing left to trim but the active file".
		return total <= fs.maxTotalBytes || len(entries) == 1
	}, 2*time.Second, 10*time.Millisecond)
}
