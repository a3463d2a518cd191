package metrics_test

import (
	"math"
	"testing"
	"time"

	"github.com/atomintents/intentload/internal/metrics"
)

func successOutcome(latencyMs float64) metrics.Outcome {
	return metrics.Outcome{
		Success:    true,
		LatencyMs:  latencyMs,
		StatusCode: 200,
		ObservedAt: time.Now(),
	}
}

func TestSummarizeCounts(t *testing.T) {
	start := time.Now()
	end := start.Add(2 * time.Second)

	outcomes := []metrics.Outcome{
		successOutcome(10),
		successOutcome(20),
		{Success: false, LatencyMs: 30, StatusCode: 404},
		{Success: false, LatencyMs: 40, ErrorKind: metrics.ErrorKindTimeout},
	}

	stats := metrics.Summarize(outcomes, start, end)

	if stats.Total != 4 {
		t.Errorf("expected total 4, got %d", stats.Total)
	}
	if stats.Successful != 2 {
		t.Errorf("expected successful 2, got %d", stats.Successful)
	}
	if stats.Failed != 2 {
		t.Errorf("expected failed 2, got %d", stats.Failed)
	}
	if got := stats.SuccessRate(); got != 50 {
		t.Errorf("expected success rate 50, got %g", got)
	}
	if got := stats.RequestsPerSecond(); got != 2 {
		t.Errorf("expected 2 rps, got %g", got)
	}
	if got := stats.AvgLatency(); got != 25 {
		t.Errorf("expected avg latency 25, got %g", got)
	}
}

func TestSummarizeEmptyRun(t *testing.T) {
	now := time.Now()
	stats := metrics.Summarize(nil, now, now)

	if stats.SuccessRate() != 0 {
		t.Errorf("expected success rate 0 for empty run, got %g", stats.SuccessRate())
	}
	if stats.RequestsPerSecond() != 0 {
		t.Errorf("expected 0 rps for zero duration, got %g", stats.RequestsPerSecond())
	}
	if stats.P99Latency() != 0 {
		t.Errorf("expected p99 0 for empty run, got %g", stats.P99Latency())
	}
}

func TestSuccessRateBounds(t *testing.T) {
	start := time.Now()
	outcomes := []metrics.Outcome{
		successOutcome(1),
		{Success: false, LatencyMs: 1, StatusCode: 500},
	}
	stats := metrics.Summarize(outcomes, start, start.Add(time.Second))

	rate := stats.SuccessRate()
	if rate < 0 || rate > 100 {
		t.Fatalf("success rate out of bounds: %g", rate)
	}
}

func TestPercentileNearestRank(t *testing.T) {
	start := time.Now()
	outcomes := []metrics.Outcome{
		successOutcome(50),
		successOutcome(10),
		successOutcome(40),
		successOutcome(20),
		successOutcome(30),
	}
	stats := metrics.Summarize(outcomes, start, start.Add(time.Second))

	// floor(5*0.5)=2 -> 30, floor(5*0.95)=4 -> 50, min(floor(5*0.99),4)=4 -> 50.
	if got := stats.P50Latency(); got != 30 {
		t.Errorf("expected p50 30, got %g", got)
	}
	if got := stats.P95Latency(); got != 50 {
		t.Errorf("expected p95 50, got %g", got)
	}
	if got := stats.P99Latency(); got != 50 {
		t.Errorf("expected p99 50, got %g", got)
	}
}

func TestPercentileSingleSample(t *testing.T) {
	start := time.Now()
	stats := metrics.Summarize([]metrics.Outcome{successOutcome(42)}, start, start.Add(time.Second))

	for name, got := range map[string]float64{
		"p50": stats.P50Latency(),
		"p95": stats.P95Latency(),
		"p99": stats.P99Latency(),
	} {
		if got != 42 {
			t.Errorf("expected %s 42 for single sample, got %g", name, got)
		}
	}
}

func TestSummarizeDoesNotMutateInput(t *testing.T) {
	start := time.Now()
	outcomes := []metrics.Outcome{successOutcome(3), successOutcome(1), successOutcome(2)}

	stats := metrics.Summarize(outcomes, start, start.Add(time.Second))
	_ = stats.P99Latency() // percentile sorts a copy

	if outcomes[0].LatencyMs != 3 || outcomes[1].LatencyMs != 1 || outcomes[2].LatencyMs != 2 {
		t.Fatal("Summarize mutated its input")
	}
	if stats.Latencies[0] != 3 || stats.Latencies[1] != 1 || stats.Latencies[2] != 2 {
		t.Fatal("latencies did not retain insertion order")
	}
}

func TestErrorCountsSumEqualsFailed(t *testing.T) {
	start := time.Now()
	outcomes := []metrics.Outcome{
		successOutcome(1),
		{Success: false, LatencyMs: 1, ErrorKind: metrics.ErrorKindTimeout},
		{Success: false, LatencyMs: 1, ErrorKind: metrics.ErrorKindTimeout},
		{Success: false, LatencyMs: 1, StatusCode: 404},
		{Success: false, LatencyMs: 1, StatusCode: 503},
	}
	stats := metrics.Summarize(outcomes, start, start.Add(time.Second))

	sum := 0
	for _, n := range stats.ErrorCounts {
		sum += n
	}
	if sum != stats.Failed {
		t.Fatalf("error counts sum %d != failed %d", sum, stats.Failed)
	}
	if stats.ErrorCounts[metrics.ErrorKindTimeout] != 2 {
		t.Errorf("expected 2 timeouts, got %d", stats.ErrorCounts[metrics.ErrorKindTimeout])
	}
}

func TestStatusFailureAggregatesUnderHTTPKey(t *testing.T) {
	start := time.Now()
	outcome := metrics.Outcome{Success: false, LatencyMs: 5, StatusCode: 404}
	if outcome.ErrorKind != "" {
		t.Fatal("status failure should leave error kind empty")
	}

	stats := metrics.Summarize([]metrics.Outcome{outcome}, start, start.Add(time.Second))
	if stats.ErrorCounts["HTTP 404"] != 1 {
		t.Fatalf("expected HTTP 404 bucket, got %v", stats.ErrorCounts)
	}
}

func TestRequestsPerSecond(t *testing.T) {
	start := time.Now()
	end := start.Add(500 * time.Millisecond)
	outcomes := []metrics.Outcome{successOutcome(1), successOutcome(1), successOutcome(1)}

	stats := metrics.Summarize(outcomes, start, end)
	if got := stats.RequestsPerSecond(); math.Abs(got-6) > 1e-9 {
		t.Fatalf("expected 6 rps, got %g", got)
	}
}
