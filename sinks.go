package ringlog

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/valyala/bytebufferpool"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// releaseFormatBuf returns a Format buffer to the shared pool.
func releaseFormatBuf(buf *bytebufferpool.ByteBuffer) {
	bytebufferpool.Put(buf)
}

// consoleSink mirrors rendered batches to stdout or stderr.
type consoleSink struct {
	mu sync.Mutex
	w  io.Writer
}

func newConsoleSink(target string) *consoleSink {
	w := io.Writer(os.Stdout)
	if target == "stderr" {
		w = os.Stderr
	}
	return &consoleSink{w: w}
}

func (cs *consoleSink) write(data []byte) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	_, err := cs.w.Write(data)
	return err
}

// diagSink is the logger's own internal-error channel: failures writing
// application Records must never be fed back through the same pipeline,
// so they land here instead, backed by gopkg.in/natefinch/lumberjack.v2
// the way a long-running service keeps its own diagnostics bounded
// independent of the primary log rotation policy.
type diagSink struct {
	mu     sync.Mutex
	logger *lumberjack.Logger
}

func newDiagSink(path string) (*diagSink, error) {
	return &diagSink{
		logger: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    5, // megabytes
			MaxBackups: 2,
			MaxAge:     7, // days
			Compress:   true,
		},
	}, nil
}

func (ds *diagSink) report(err error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	line := time.Now().Format(time.RFC3339) + " " + err.Error() + "\n"
	_, _ = ds.logger.Write([]byte(line))
}

func (ds *diagSink) close() error {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.logger.Close()
}
