package ringlog

import (
	"os"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/ringlog/sanitizer"
	"golang.org/x/sync/errgroup"
)

// consumerState is the Consumer's lifecycle state machine.
type consumerState int32

const (
	consumerRunning consumerState = iota
	consumerStopping
	consumerDrained
)

// batchSize bounds how many Records the Consumer drains in one round,
// spread across all currently registered rings.
const batchSize = 4096

// idleSleepBusy is used when any registered ring is nearly full; a
// shorter sleep lets the consumer catch up faster under backpressure.
const (
	idleSleepBusy = 10 * time.Microsecond
	idleSleepCalm = 100 * time.Microsecond
)

// Consumer is the single background goroutine that drains every
// registered ProducerRing round-robin and renders batches to the
// configured sinks.
type Consumer struct {
	logger   *Logger
	registry *Registry

	state atomic.Int32 // consumerState
	done  chan struct{}

	file    *fileSink
	console *consoleSink
	diag    *diagSink

	sanitizer *sanitizer.Sanitizer
}

func newConsumer(l *Logger, reg *Registry) *Consumer {
	return &Consumer{
		logger:    l,
		registry:  reg,
		sanitizer: sanitizer.NewDefault(),
		done:      make(chan struct{}),
	}
}

// start launches the drain loop. Must be called at most once per Consumer.
func (c *Consumer) start() {
	c.state.Store(int32(consumerRunning))
	go c.run()
}

// stop requests a graceful shutdown: the consumer keeps draining until
// every registered ring (and any still-unregistering ring still held by
// a stale snapshot) reports empty, then exits.
func (c *Consumer) stop() {
	c.state.Store(int32(consumerStopping))
	<-c.done
}

func (c *Consumer) run() {
	defer close(c.done)

	for {
		snapshot := c.registry.snapshot()
		drainedAny := c.drainRound(snapshot)

		if consumerState(c.state.Load()) == consumerStopping {
			if c.allEmpty(snapshot) {
				c.finalDrain()
				return
			}
			continue // keep draining hard until empty, ignore idle sleep
		}

		if !drainedAny {
			if c.anyNearlyFull(snapshot) {
				time.Sleep(idleSleepBusy)
			} else {
				time.Sleep(idleSleepCalm)
			}
		}
	}
}

// finalDrain repeats drain rounds against the latest snapshot until every
// ring is observed empty, guaranteeing the Stopping->Drained transition
// never loses a Record enqueued just before Shutdown was called.
func (c *Consumer) finalDrain() {
	for {
		snapshot := c.registry.snapshot()
		if !c.drainRound(snapshot) && c.allEmpty(snapshot) {
			c.flushSinks()
			c.state.Store(int32(consumerDrained))
			return
		}
	}
}

func (c *Consumer) allEmpty(snapshot []*ProducerRing) bool {
	for _, r := range snapshot {
		if !r.isEmpty() {
			return false
		}
	}
	return true
}

func (c *Consumer) anyNearlyFull(snapshot []*ProducerRing) bool {
	for _, r := range snapshot {
		if r.isNearlyFull() {
			return true
		}
	}
	return false
}

// drainRound takes one round-robin pass over snapshot, each ring
// contributing up to quota Records (quota = BATCH_SIZE /
// max(len(snapshot), 1)), and flushes whatever was collected. Returns
// whether any Record was drained.
func (c *Consumer) drainRound(snapshot []*ProducerRing) bool {
	n := len(snapshot)
	if n == 0 {
		return false
	}
	quota := batchSize / n
	if quota == 0 {
		quota = 1
	}

	batch := make([]Record, 0, batchSize)
	for _, r := range snapshot {
		for i := 0; i < quota; i++ {
			rec, ok := r.dequeue()
			if !ok {
				break
			}
			batch = append(batch, rec)
		}
	}
	if len(batch) == 0 {
		return false
	}
	c.flushBatch(batch)
	return true
}

// flushBatch renders and writes a batch. File and console writes happen
// concurrently via errgroup, so a slow console mirror never stalls file
// throughput.
func (c *Consumer) flushBatch(batch []Record) {
	cfg := c.logger.getConfig()

	// Sanitize before either sink formats the line, per the adapted
	// sanitizer's placement ahead of layout.
	for i := range batch {
		batch[i].Message = c.sanitizer.Sanitize(batch[i].Message)
	}

	var group errgroup.Group

	if cfg.FileOutput && c.file != nil {
		group.Go(func() error {
			opts := formatOptionsFromConfig(cfg, false)
			for _, rec := range batch {
				buf := Format(rec, opts)
				err := c.file.write(buf.B)
				releaseFormatBuf(buf)
				if err != nil {
					c.reportInternal(err)
				}
			}
			return nil
		})
	}

	if cfg.ConsoleOutput && c.console != nil {
		group.Go(func() error {
			opts := formatOptionsFromConfig(cfg, true)
			for _, rec := range batch {
				buf := Format(rec, opts)
				err := c.console.write(buf.B)
				releaseFormatBuf(buf)
				if err != nil {
					c.reportInternal(err)
				}
			}
			return nil
		})
	}

	_ = group.Wait()

	c.logger.stats.totalProcessed.Add(uint64(len(batch)))
}

func (c *Consumer) flushSinks() {
	if c.file != nil {
		_ = c.file.sync()
	}
}

// reportInternal routes a sink error to the internal diagnostics sink
// rather than back through the pipeline, avoiding feedback loops between
// the logger and its own error reporting.
func (c *Consumer) reportInternal(err error) {
	c.logger.stats.internalErrors.Add(1)
	if c.diag != nil {
		c.diag.report(err)
		return
	}
	os.Stderr.WriteString("ringlog: " + err.Error() + "\n")
}

// applySinks builds the file/console/diag sinks from cfg; called once at
// Logger initialization. Configure does not call it: it reopens or closes
// the file sink itself (see reopenFile) and replaces the console sink.
func (c *Consumer) applySinks(cfg *Config) error {
	if cfg.FileOutput {
		if c.file == nil {
			fs, err := newFileSink(cfg, &c.logger.stats)
			if err != nil {
				return err
			}
			c.file = fs
		}
	} else if c.file != nil {
		_ = c.file.close()
		c.file = nil
	}

	c.console = newConsoleSink(cfg.ConsoleTarget)

	if cfg.InternalDiagPath != "" {
		ds, err := newDiagSink(cfg.InternalDiagPath)
		if err != nil {
			return err
		}
		c.diag = ds
	}
	return nil
}

func (c *Consumer) reopenFile(cfg *Config) error {
	if c.file == nil {
		fs, err := newFileSink(cfg, &c.logger.stats)
		if err != nil {
			return err
		}
		c.file = fs
		return nil
	}
	return c.file.reopen(cfg.LogDir, cfg.FilePrefix)
}

func (c *Consumer) closeSinks() error {
	var err error
	if c.file != nil {
		err = combineErrors(err, c.file.close())
	}
	if c.diag != nil {
		err = combineErrors(err, c.diag.close())
	}
	return err
}
