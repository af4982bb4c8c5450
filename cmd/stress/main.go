// Command stress fans out many concurrent producer goroutines against a
// single Logger, to exercise the ring pipeline under sustained
// backpressure: rotation, retention, and the adaptive consumer idle
// sleep should all trigger during a long enough run.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/lixenwraith/ringlog"
	"golang.org/x/sync/errgroup"
)

const (
	totalBursts    = 100
	logsPerBurst   = 500
	maxMessageSize = 2000
	numWorkers     = 64
)

var levels = []ringlog.Level{
	ringlog.LevelDebug,
	ringlog.LevelInfo,
	ringlog.LevelWarning,
	ringlog.LevelError,
}

func randomMessage(size int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "
	var sb strings.Builder
	sb.Grow(size)
	for i := 0; i < size; i++ {
		sb.WriteByte(chars[rand.Intn(len(chars))])
	}
	return sb.String()
}

func logBurst(p *ringlog.Producer, burstID int) {
	for i := 0; i < logsPerBurst; i++ {
		level := levels[rand.Intn(len(levels))]
		msg := fmt.Sprintf("%s burst=%d seq=%d", randomMessage(rand.Intn(maxMessageSize)+10), burstID, i)
		p.Log(level, ringlog.SourceLocation{Function: "logBurst"}, msg)
	}
}

func main() {
	logsDir := "./stress_logs"
	_ = os.RemoveAll(logsDir)

	cfg := ringlog.DefaultConfig()
	cfg.LogDir = logsDir
	cfg.FilePrefix = "stress"
	cfg.MaxFileBytes = 1 << 20 // 1MB, forces frequent rotation
	cfg.MaxFiles = 20
	cfg.MinLevel = ringlog.LevelDebug
	cfg.ConsoleOutput = false

	logger := ringlog.NewLogger()
	if err := logger.Initialize(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("stress test: %d workers, %d bursts, %d logs/burst -> %s\n",
		numWorkers, totalBursts, logsPerBurst, logsDir)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	stopChan := make(chan struct{})
	go func() {
		<-sigChan
		fmt.Println("\nsignal received, halting burst submission")
		close(stopChan)
	}()

	burstChan := make(chan int, numWorkers)
	var completed atomic.Int64

	var group errgroup.Group
	for w := 0; w < numWorkers; w++ {
		workerID := w
		group.Go(func() error {
			p := logger.NewProducer(fmt.Sprintf("stress-worker-%d", workerID))
			defer p.Close()
			for burstID := range burstChan {
				logBurst(p, burstID)
				n := completed.Add(1)
				if n%10 == 0 || n == totalBursts {
					fmt.Printf("\rprogress: %d/%d bursts", n, totalBursts)
				}
			}
			return nil
		})
	}

	start := time.Now()
feed:
	for i := 1; i <= totalBursts; i++ {
		select {
		case burstChan <- i:
		case <-stopChan:
			break feed
		}
	}
	close(burstChan)

	_ = group.Wait()
	duration := time.Since(start)
	done := completed.Load()

	fmt.Printf("\ncompleted %d/%d bursts in %v\n", done, totalBursts, duration.Round(time.Millisecond))
	if done > 0 && duration.Seconds() > 0 {
		fmt.Printf("approximate logs/sec: %.0f\n", float64(done*logsPerBurst)/duration.Seconds())
	}

	if err := logger.PrintStats(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "failed to print stats: %v\n", err)
	}

	if err := logger.Shutdown(10 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "logger shutdown error: %v\n", err)
	}
}
