package ringlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/panjf2000/ants/v2"
)

// fileSink is the append-only file destination (C6). It tracks the
// current file's size so rotation can trigger without a stat() on every
// write, and rotates with the rename-then-reopen strategy: close the
// current file, rename it to a timestamped archive name, open a fresh
// file at the static path.
//
// A rotation/rename failure, or a write failure that still fails after
// one retry, puts the sink into a disabled state that lasts until reopen:
// further writes are dropped (counted, not retried) rather than hammering
// a filesystem or directory that is not coming back.
type fileSink struct {
	mu       sync.Mutex
	dir      string
	file     *os.File
	size     int64
	disabled bool

	prefix           string
	maxFileBytes     int64
	maxFiles         int
	maxTotalBytes    int64
	minDiskFreeBytes int64
	compressRotated  bool
	retentionWorkers int

	pool *ants.Pool // bounded workers for parallel retention cleanup/compression

	stats *loggerStats
}

func newFileSink(cfg *Config, stats *loggerStats) (*fileSink, error) {
	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: mkdir %s: %v", ErrFileOpenFailed, cfg.LogDir, err)
	}
	pool, err := ants.NewPool(cfg.RetentionWorkers, ants.WithNonblocking(false))
	if err != nil {
		return nil, fmtErrorf("failed to create retention worker pool: %w", err)
	}
	fs := &fileSink{
		dir:              cfg.LogDir,
		prefix:           cfg.FilePrefix,
		maxFileBytes:     cfg.MaxFileBytes,
		maxFiles:         cfg.MaxFiles,
		maxTotalBytes:    cfg.MaxTotalSizeMB * 1024 * 1024,
		minDiskFreeBytes: cfg.MinDiskFreeMB * 1024 * 1024,
		compressRotated:  cfg.CompressRotated,
		retentionWorkers: cfg.RetentionWorkers,
		pool:             pool,
		stats:            stats,
	}
	if err := fs.openLocked(); err != nil {
		pool.Release()
		return nil, err
	}
	return fs, nil
}

func (fs *fileSink) staticPath() string {
	return filepath.Join(fs.dir, fs.prefix+".log")
}

func (fs *fileSink) openLocked() error {
	f, err := os.OpenFile(fs.staticPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFileOpenFailed, fs.staticPath(), err)
	}
	fs.file = f
	fs.size = 0
	if fi, errStat := f.Stat(); errStat == nil {
		fs.size = fi.Size()
	}
	return nil
}

// write appends data, rotating first if the write would exceed
// max_file_bytes. Safe for single-writer use (the Consumer calls this
// from its single goroutine; no internal serialization is otherwise
// required, but mu also guards sync/close/reopen touching fs.file).
//
// Once disabled, write drops data silently (after counting it) instead
// of reporting an error on every subsequent batch: the failure was
// already surfaced once, at the moment the sink disabled itself.
func (fs *fileSink) write(data []byte) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.disabled {
		fs.stats.droppedRecords.Add(1)
		return nil
	}

	if fs.size+int64(len(data)) > fs.maxFileBytes && fs.size > 0 {
		if err := fs.rotateLocked(); err != nil {
			fs.disabled = true
			return fmt.Errorf("%w: %v", ErrFileSinkDisabled, err)
		}
	}

	n, err := fs.file.Write(data)
	fs.size += int64(n)
	if err != nil {
		// Retry once against the unwritten remainder before giving up.
		n2, err2 := fs.file.Write(data[n:])
		fs.size += int64(n2)
		if err2 != nil {
			fs.disabled = true
			return fmt.Errorf("%w: write failed, retried once: %v", ErrFileSinkDisabled, err2)
		}
	}
	return nil
}

func (fs *fileSink) rotateLocked() error {
	if err := fs.file.Close(); err != nil {
		return fmt.Errorf("%w: close before rotate: %v", ErrFileWriteFailed, err)
	}

	stamp := time.Now().Format("20060102_150405")
	archivePath := filepath.Join(fs.dir, fmt.Sprintf("%s_%s.log", fs.prefix, stamp))
	// Several rotations can fall within the same second; later ones get a
	// numbered name instead of renaming over an earlier archive.
	for seq := 1; ; seq++ {
		_, errLog := os.Stat(archivePath)
		_, errGz := os.Stat(archivePath + ".gz")
		if os.IsNotExist(errLog) && os.IsNotExist(errGz) {
			break
		}
		archivePath = filepath.Join(fs.dir, fmt.Sprintf("%s_%s_%03d.log", fs.prefix, stamp, seq))
	}
	if err := os.Rename(fs.staticPath(), archivePath); err != nil {
		return fmt.Errorf("%w: rename %s -> %s: %v", ErrFileOpenFailed, fs.staticPath(), archivePath, err)
	}

	if err := fs.openLocked(); err != nil {
		return err
	}
	fs.stats.rotations.Add(1)

	// Retention cleanup runs off the hot path via the worker pool so a
	// slow filesystem never stalls the consumer's next flush.
	_ = fs.pool.Submit(func() {
		fs.runRetention(archivePath)
	})
	return nil
}

// retentionEntry is one file on disk matching prefix[.log|.log.gz],
// including the still-open active file — collectRetentionEntries
// enumerates every matching file, not just archives.
type retentionEntry struct {
	path    string
	modTime time.Time
	size    int64
	active  bool
}

func (fs *fileSink) collectRetentionEntries() ([]retentionEntry, error) {
	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		return nil, err
	}
	staticName := fs.prefix + ".log"
	var out []retentionEntry
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, fs.prefix) {
			continue
		}
		if !(strings.HasSuffix(name, ".log") || strings.HasSuffix(name, ".log.gz")) {
			continue
		}
		info, errInfo := e.Info()
		if errInfo != nil {
			continue
		}
		out = append(out, retentionEntry{
			path:    filepath.Join(fs.dir, name),
			modTime: info.ModTime(),
			size:    info.Size(),
			active:  name == staticName,
		})
	}
	return out, nil
}

// runRetention compresses the just-rotated archive (if configured), then
// trims the directory in two passes: first to at most max_files entries
// matching the prefix (the active file counts toward that total, as
// collectRetentionEntries includes it), then further if the directory still exceeds
// max_total_size_mb or free disk space is below min_disk_free_mb.
func (fs *fileSink) runRetention(justRotated string) {
	if fs.compressRotated {
		if compressed, err := compressFile(justRotated); err == nil {
			justRotated = compressed
		}
	}

	entries, err := fs.collectRetentionEntries()
	if err != nil {
		return
	}

	if fs.maxFiles > 0 && len(entries) > fs.maxFiles {
		sort.Slice(entries, func(i, j int) bool { return entries[i].modTime.Before(entries[j].modTime) })
		excess := len(entries) - fs.maxFiles
		kept := entries[:0]
		removed := 0
		for _, e := range entries {
			if removed < excess && !e.active {
				if err := os.Remove(e.path); err == nil {
					fs.stats.deletions.Add(1)
					removed++
					continue
				}
			}
			kept = append(kept, e)
		}
		entries = kept
	}

	if fs.maxTotalBytes <= 0 && fs.minDiskFreeBytes <= 0 {
		return
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].modTime.Before(entries[j].modTime) })
	for {
		needMore := false
		if fs.maxTotalBytes > 0 {
			var total int64
			for _, e := range entries {
				total += e.size
			}
			if total > fs.maxTotalBytes {
				needMore = true
			}
		}
		if !needMore && fs.minDiskFreeBytes > 0 {
			if free, errFree := diskFreeBytes(fs.dir); errFree == nil && free < fs.minDiskFreeBytes {
				needMore = true
			}
		}
		if !needMore {
			return
		}

		idx := -1
		for i, e := range entries {
			if !e.active {
				idx = i
				break
			}
		}
		if idx == -1 {
			return // nothing left to free but the active file
		}
		if err := os.Remove(entries[idx].path); err == nil {
			fs.stats.deletions.Add(1)
		}
		entries = append(entries[:idx], entries[idx+1:]...)
	}
}

func compressFile(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer src.Close()

	dstPath := path + ".gz"
	dst, err := os.OpenFile(dstPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	gw := gzip.NewWriter(dst)
	if _, err := io.Copy(gw, src); err != nil {
		gw.Close()
		return "", err
	}
	if err := gw.Close(); err != nil {
		return "", err
	}
	if err := os.Remove(path); err != nil {
		return "", err
	}
	return dstPath, nil
}

// sync flushes the current file to durable storage.
func (fs *fileSink) sync() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.file == nil {
		return nil
	}
	return fs.file.Sync()
}

// close syncs and closes the current file and releases the retention
// worker pool. Safe to call once during shutdown.
func (fs *fileSink) close() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.pool.Release()
	if fs.file == nil {
		return nil
	}
	_ = fs.file.Sync()
	err := fs.file.Close()
	fs.file = nil
	return err
}

// reopen closes the current file (if any, without rotating it) and opens
// a fresh handle at dir/prefix.log — used when Configure changes log_dir
// or file_prefix at runtime. Also clears the disabled state, since a
// reopen targets a new location that may no longer have the problem that
// disabled the sink.
func (fs *fileSink) reopen(dir, prefix string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.file != nil {
		_ = fs.file.Sync()
		_ = fs.file.Close()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: mkdir %s: %v", ErrFileOpenFailed, dir, err)
	}
	fs.dir = dir
	fs.prefix = prefix
	fs.disabled = false
	return fs.openLocked()
}
