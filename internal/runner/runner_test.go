package runner_test

import (
	"context"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/atomintents/intentload/internal/metrics"
	"github.com/atomintents/intentload/internal/runner"
)

type fakeSource struct {
	calls int64
}

func (f *fakeSource) Next() any {
	atomic.AddInt64(&f.calls, 1)
	return map[string]string{"kind": "stub"}
}

// fakeExecutor simulates request execution with a fixed latency and
// scripted outcome.
type fakeExecutor struct {
	latency time.Duration
	outcome metrics.Outcome
	calls   int64
}

func (f *fakeExecutor) Execute(ctx context.Context, payload any) metrics.Outcome {
	atomic.AddInt64(&f.calls, 1)
	if f.latency > 0 {
		select {
		case <-time.After(f.latency):
		case <-ctx.Done():
		}
	}
	o := f.outcome
	o.LatencyMs = float64(f.latency) / float64(time.Millisecond)
	o.ObservedAt = time.Now()
	return o
}

type fakeReporter struct {
	started int32
	stopped int32
}

func (f *fakeReporter) Start() { atomic.AddInt32(&f.started, 1) }
func (f *fakeReporter) Stop()  { atomic.AddInt32(&f.stopped, 1) }

func TestWorkerCountFormula(t *testing.T) {
	cases := []struct {
		rps  float64
		want int
	}{
		{0.5, 1},
		{5, 1},
		{10, 2},
		{20, 3},
		{95, 10},
		{489, 49},
		{490, 50},
		{10000, 50},
	}
	for _, tc := range cases {
		if got := runner.WorkerCount(tc.rps); got != tc.want {
			t.Errorf("WorkerCount(%g) = %d, want %d", tc.rps, got, tc.want)
		}
	}
}

func TestPerWorkerRatesSumToTarget(t *testing.T) {
	for _, rps := range []float64{0.5, 1, 10, 33.3, 100, 499, 2500} {
		workers := runner.WorkerCount(rps)
		sum := runner.PerWorkerRPS(rps) * float64(workers)
		if math.Abs(sum-rps) > 1e-9 {
			t.Errorf("per-worker rates for %g RPS sum to %g across %d workers", rps, sum, workers)
		}
	}
}

func TestNewValidatesOptions(t *testing.T) {
	valid := runner.Options{
		TargetRPS: 10,
		Duration:  time.Second,
		Source:    &fakeSource{},
		Executor:  &fakeExecutor{},
		Collector: metrics.NewCollector(),
	}
	if _, err := runner.New(valid); err != nil {
		t.Fatalf("valid options rejected: %v", err)
	}

	invalid := []func(runner.Options) runner.Options{
		func(o runner.Options) runner.Options { o.TargetRPS = 0; return o },
		func(o runner.Options) runner.Options { o.Duration = 0; return o },
		func(o runner.Options) runner.Options { o.Source = nil; return o },
		func(o runner.Options) runner.Options { o.Executor = nil; return o },
		func(o runner.Options) runner.Options { o.Collector = nil; return o },
	}
	for i, mutate := range invalid {
		if _, err := runner.New(mutate(valid)); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

func TestPoolAchievesTargetVolume(t *testing.T) {
	exec := &fakeExecutor{outcome: metrics.Outcome{Success: true, StatusCode: 200}}
	collector := metrics.NewCollector()
	pool, err := runner.New(runner.Options{
		TargetRPS: 20,
		Duration:  time.Second,
		Source:    &fakeSource{},
		Executor:  exec,
		Collector: collector,
	})
	if err != nil {
		t.Fatalf("runner.New: %v", err)
	}

	stats := pool.Run(context.Background())

	// 20 RPS over 1s across 3 workers: expect roughly 20 outcomes, with
	// worker-rounding slack (each worker fires immediately, then paces).
	if stats.Total < 15 || stats.Total > 30 {
		t.Fatalf("expected ~20 requests, got %d", stats.Total)
	}
	if stats.Successful != stats.Total {
		t.Fatalf("expected all successes, got %d/%d", stats.Successful, stats.Total)
	}
	if len(stats.ErrorCounts) != 0 {
		t.Fatalf("expected no errors, got %v", stats.ErrorCounts)
	}
}

func TestPoolAggregatesFailures(t *testing.T) {
	exec := &fakeExecutor{outcome: metrics.Outcome{Success: false, ErrorKind: metrics.ErrorKindTimeout}}
	collector := metrics.NewCollector()
	pool, err := runner.New(runner.Options{
		TargetRPS: 10,
		Duration:  500 * time.Millisecond,
		Source:    &fakeSource{},
		Executor:  exec,
		Collector: collector,
	})
	if err != nil {
		t.Fatalf("runner.New: %v", err)
	}

	stats := pool.Run(context.Background())

	if stats.Total == 0 {
		t.Fatal("expected some requests")
	}
	if stats.Failed != stats.Total {
		t.Fatalf("expected all failures, got %d/%d", stats.Failed, stats.Total)
	}
	if stats.ErrorCounts[metrics.ErrorKindTimeout] != stats.Total {
		t.Fatalf("expected %d timeout errors, got %v", stats.Total, stats.ErrorCounts)
	}
}

func TestPoolHonorsDuration(t *testing.T) {
	exec := &fakeExecutor{outcome: metrics.Outcome{Success: true, StatusCode: 200}}
	pool, err := runner.New(runner.Options{
		TargetRPS: 50,
		Duration:  200 * time.Millisecond,
		Source:    &fakeSource{},
		Executor:  exec,
		Collector: metrics.NewCollector(),
	})
	if err != nil {
		t.Fatalf("runner.New: %v", err)
	}

	start := time.Now()
	stats := pool.Run(context.Background())
	elapsed := time.Since(start)

	if elapsed < 200*time.Millisecond || elapsed > time.Second {
		t.Fatalf("duration enforcement off: %s", elapsed)
	}
	if stats.Total == 0 {
		t.Fatal("expected some requests executed")
	}
	if stats.EndTime.Before(stats.StartTime) {
		t.Fatal("end time precedes start time")
	}
}

func TestPoolStartsAndStopsReporter(t *testing.T) {
	reporter := &fakeReporter{}
	pool, err := runner.New(runner.Options{
		TargetRPS: 10,
		Duration:  100 * time.Millisecond,
		Source:    &fakeSource{},
		Executor:  &fakeExecutor{outcome: metrics.Outcome{Success: true, StatusCode: 200}},
		Collector: metrics.NewCollector(),
		Reporter:  reporter,
	})
	if err != nil {
		t.Fatalf("runner.New: %v", err)
	}

	pool.Run(context.Background())

	if atomic.LoadInt32(&reporter.started) != 1 {
		t.Errorf("expected reporter started once, got %d", reporter.started)
	}
	if atomic.LoadInt32(&reporter.stopped) != 1 {
		t.Errorf("expected reporter stopped once, got %d", reporter.stopped)
	}
}

func TestPoolStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	exec := &fakeExecutor{latency: 10 * time.Millisecond, outcome: metrics.Outcome{Success: true, StatusCode: 200}}
	pool, err := runner.New(runner.Options{
		TargetRPS: 10,
		Duration:  10 * time.Second,
		Source:    &fakeSource{},
		Executor:  exec,
		Collector: metrics.NewCollector(),
	})
	if err != nil {
		t.Fatalf("runner.New: %v", err)
	}

	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	pool.Run(ctx)
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("pool did not stop on cancellation, took %s", elapsed)
	}
}
