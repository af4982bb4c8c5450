package ringlog

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintStatsReportsProducersAndCounters(t *testing.T) {
	l := NewLogger()
	require.NoError(t, l.Initialize(testConfig(t)))
	defer l.Shutdown(testShutdownTimeout)

	p := l.producerForCurrentGoroutine()
	p.SetModule("reporter")
	p.Info("one")
	p.Info("two")

	require.Eventually(t, func() bool {
		return l.stats.totalProcessed.Load() >= 2
	}, testShutdownTimeout, time.Millisecond*10)

	var buf bytes.Buffer
	require.NoError(t, l.PrintStats(&buf))

	out := buf.String()
	assert.Contains(t, out, "PRODUCER")
	assert.Contains(t, out, "reporter")
	assert.Contains(t, out, "PROCESSED")
}

func TestPrintStatsFallsBackToDashForUnknownModule(t *testing.T) {
	l := NewLogger()
	require.NoError(t, l.Initialize(testConfig(t)))
	defer l.Shutdown(testShutdownTimeout)

	p := l.NewProducer("explicit")
	defer p.Close()

	var buf bytes.Buffer
	require.NoError(t, l.PrintStats(&buf))
	assert.Regexp(t, `T-\w+\s+-\s+\d+\s+\d+`, buf.String())
}
