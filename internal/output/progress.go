package output

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/atomintents/intentload/internal/metrics"
)

// DefaultProgressInterval is how often a run reports in-flight progress.
const DefaultProgressInterval = 5 * time.Second

// ProgressReporter displays real-time progress updates.
type ProgressReporter struct {
	collector *metrics.Collector
	ticker    *time.Ticker
	done      chan struct{}
	finished  chan struct{}
	writer    io.Writer
	active    int32
	start     time.Time
}

// NewProgressReporter creates a progress reporter that updates at the given interval.
func NewProgressReporter(collector *metrics.Collector, interval time.Duration, writer io.Writer) *ProgressReporter {
	if interval <= 0 {
		interval = DefaultProgressInterval
	}
	if writer == nil {
		writer = io.Discard
	}
	return &ProgressReporter{
		collector: collector,
		ticker:    time.NewTicker(interval),
		done:      make(chan struct{}),
		finished:  make(chan struct{}),
		writer:    writer,
		start:     time.Now(),
	}
}

// Start begins displaying progress updates in a background goroutine.
func (p *ProgressReporter) Start() {
	if !atomic.CompareAndSwapInt32(&p.active, 0, 1) {
		return // already running
	}
	go p.run()
}

// Stop halts progress updates and waits for the reporting goroutine to exit.
// Safe to call more than once.
func (p *ProgressReporter) Stop() {
	if atomic.CompareAndSwapInt32(&p.active, 1, 0) {
		close(p.done)
		p.ticker.Stop()
		<-p.finished
	}
}

func (p *ProgressReporter) run() {
	defer close(p.finished)
	for {
		select {
		case <-p.ticker.C:
			elapsed := time.Since(p.start)
			live := p.collector.Live(elapsed)
			fmt.Fprintf(p.writer, "Progress: %d intents sent | OK: %d | Failed: %d | RPS: %.1f | P99: %.1fms\n",
				live.Total, live.Successes, live.Failures, live.RequestsPerSec, live.P99LatencyMs)
		case <-p.done:
			return
		}
	}
}
