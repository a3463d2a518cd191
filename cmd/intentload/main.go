package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/atomintents/intentload/internal/config"
	"github.com/atomintents/intentload/internal/dashboard"
	"github.com/atomintents/intentload/internal/executor"
	"github.com/atomintents/intentload/internal/intent"
	"github.com/atomintents/intentload/internal/metrics"
	"github.com/atomintents/intentload/internal/output"
	"github.com/atomintents/intentload/internal/runner"
	"github.com/atomintents/intentload/internal/tracing"
)

// payloadSource adapts the intent generator to the worker pool.
type payloadSource struct {
	gen *intent.Generator
}

func (s *payloadSource) Next() any {
	return s.gen.Intent().Payload()
}

type stderrFailureLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *stderrFailureLogger) LogFailure(o metrics.Outcome) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "[intentload] request failed: %s (%.1fms)\n", o.ErrorKey(), o.LatencyMs)
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tp, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "[intentload] trace shutdown: %v\n", err)
		}
	}()

	var failureLog executor.FailureLogger
	if cfg.LogErrors {
		failureLog = &stderrFailureLogger{w: os.Stderr}
	}

	exec, err := executor.New(executor.Options{
		TargetURL:   cfg.TargetURL,
		Timeout:     cfg.Timeout,
		MaxInFlight: int64(cfg.Concurrency),
		Tracing:     tp,
		FailureLog:  failureLog,
	})
	if err != nil {
		return err
	}

	collector := metrics.NewCollector()
	gen := intent.NewGenerator(cfg.Seed)

	workers := runner.WorkerCount(cfg.RPS)
	fmt.Fprintf(stdout, "Starting load test: %s | %.0f RPS | %ds | %d workers | max %d in flight\n",
		cfg.TargetURL, cfg.RPS, cfg.DurationSeconds, workers, cfg.Concurrency)

	var dash *dashboard.Dashboard
	var reporter runner.Reporter
	if cfg.Dashboard {
		dash, err = dashboard.New(collector, dashboard.RunInfo{
			TargetURL:       cfg.TargetURL,
			RPS:             cfg.RPS,
			DurationSeconds: cfg.DurationSeconds,
			Concurrent:      cfg.Concurrency,
		}, cancel)
		if err != nil {
			return err
		}
		reporter = dash
	} else {
		reporter = output.NewProgressReporter(collector, output.DefaultProgressInterval, stdout)
	}

	pool, err := runner.New(runner.Options{
		TargetRPS: cfg.RPS,
		Duration:  cfg.Duration(),
		Source:    &payloadSource{gen: gen},
		Executor:  exec,
		Collector: collector,
		Reporter:  reporter,
	})
	if err != nil {
		return err
	}

	stats := pool.Run(ctx)

	// The report prints even when the run was cut short by a signal.
	output.PrintReport(stdout, stats)

	if cfg.Output != "" {
		report := output.NewReport(output.RunConfig{
			TargetURL:       cfg.TargetURL,
			RPS:             cfg.RPS,
			DurationSeconds: cfg.DurationSeconds,
			Concurrent:      cfg.Concurrency,
		}, stats)
		if err := output.WriteReport(cfg.Output, report); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "\nResults written to %s\n", cfg.Output)
	}

	return nil
}
