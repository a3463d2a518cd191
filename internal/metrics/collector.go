package metrics

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Collector is the shared per-run outcome container. Workers append into it
// concurrently; the full outcome sequence is handed to Summarize once the
// run completes.
type Collector struct {
	mu       sync.Mutex
	outcomes []Outcome
	hist     *hdrhistogram.Histogram
	success  int64
	failure  int64
	errors   map[string]int
}

// LiveStats is a cheap point-in-time snapshot for progress reporting while
// the run is still in flight. Percentiles come from the histogram and are
// approximate; the final report recomputes them exactly.
type LiveStats struct {
	Total          int64
	Successes      int64
	Failures       int64
	RequestsPerSec float64
	P50LatencyMs   float64
	P99LatencyMs   float64
	MaxLatencyMs   float64
	ErrorCounts    map[string]int
}

func NewCollector() *Collector {
	// Track latencies from 1µs up to 60s with 3 significant figures.
	h := hdrhistogram.New(1, 60_000_000, 3)
	return &Collector{
		hist:   h,
		errors: make(map[string]int),
	}
}

// Append records one outcome. Safe for concurrent use; a single caller's
// outcomes retain their append order.
func (c *Collector) Append(o Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.outcomes = append(c.outcomes, o)

	us := int64(o.LatencyMs * 1000)
	if us < c.hist.LowestTrackableValue() {
		us = c.hist.LowestTrackableValue()
	}
	if us > c.hist.HighestTrackableValue() {
		us = c.hist.HighestTrackableValue()
	}
	_ = c.hist.RecordValue(us)

	if o.Success {
		c.success++
	} else {
		c.failure++
		c.errors[o.ErrorKey()]++
	}
}

// Len returns the number of outcomes recorded so far.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.outcomes)
}

// Outcomes returns a copy of the recorded outcome sequence.
func (c *Collector) Outcomes() []Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Outcome(nil), c.outcomes...)
}

// Live returns an in-flight snapshot for the given elapsed run time.
func (c *Collector) Live(elapsed time.Duration) LiveStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	live := LiveStats{
		Total:     c.success + c.failure,
		Successes: c.success,
		Failures:  c.failure,
	}
	if elapsed > 0 && live.Total > 0 {
		live.RequestsPerSec = float64(live.Total) / elapsed.Seconds()
	}
	if c.hist.TotalCount() > 0 {
		live.P50LatencyMs = float64(c.hist.ValueAtQuantile(50)) / 1000
		live.P99LatencyMs = float64(c.hist.ValueAtQuantile(99)) / 1000
		live.MaxLatencyMs = float64(c.hist.Max()) / 1000
	}
	if len(c.errors) > 0 {
		live.ErrorCounts = make(map[string]int, len(c.errors))
		for k, v := range c.errors {
			live.ErrorCounts[k] = v
		}
	}
	return live
}
