package output

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/atomintents/intentload/internal/metrics"
)

// syncBuffer guards a bytes.Buffer so the reporter goroutine and the test
// can touch it safely.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestProgressReporterEmitsUpdates(t *testing.T) {
	collector := metrics.NewCollector()
	collector.Append(metrics.Outcome{Success: true, StatusCode: 200, LatencyMs: 12})
	collector.Append(metrics.Outcome{Success: false, ErrorKind: metrics.ErrorKindTimeout, LatencyMs: 30000})

	buf := &syncBuffer{}
	reporter := NewProgressReporter(collector, 10*time.Millisecond, buf)
	reporter.Start()
	time.Sleep(60 * time.Millisecond)
	reporter.Stop()

	out := buf.String()
	if !strings.Contains(out, "Progress: 2 intents sent") {
		t.Errorf("missing progress line, got %q", out)
	}
	if !strings.Contains(out, "OK: 1") || !strings.Contains(out, "Failed: 1") {
		t.Errorf("missing success/failure counts, got %q", out)
	}
}

func TestProgressReporterStopIsIdempotent(t *testing.T) {
	reporter := NewProgressReporter(metrics.NewCollector(), 10*time.Millisecond, nil)
	reporter.Start()
	reporter.Stop()
	reporter.Stop() // must not panic or block
}

func TestProgressReporterStartTwice(t *testing.T) {
	reporter := NewProgressReporter(metrics.NewCollector(), 10*time.Millisecond, nil)
	reporter.Start()
	reporter.Start() // second start is a no-op
	reporter.Stop()
}
