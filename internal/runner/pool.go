package runner

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/atomintents/intentload/internal/metrics"
)

// Pool distributes a target aggregate rate across workers and joins them.
type Pool struct {
	opt Options
}

// New validates the options and returns a Pool.
func New(opt Options) (*Pool, error) {
	if opt.TargetRPS <= 0 {
		return nil, errors.New("target RPS must be > 0")
	}
	if opt.Duration <= 0 {
		return nil, errors.New("duration must be > 0")
	}
	if opt.Source == nil {
		return nil, errors.New("payload source is required")
	}
	if opt.Executor == nil {
		return nil, errors.New("executor is required")
	}
	if opt.Collector == nil {
		return nil, errors.New("collector is required")
	}
	return &Pool{opt: opt}, nil
}

// Run spawns the workers and the progress reporter, blocks until every
// worker has observed the deadline, then stops the reporter and reduces the
// collected outcomes to summary statistics. Request failures are folded
// into the stats and never abort the run.
func (p *Pool) Run(ctx context.Context) metrics.Stats {
	start := time.Now()
	deadline := start.Add(p.opt.Duration)

	workers := WorkerCount(p.opt.TargetRPS)
	perWorker := p.opt.TargetRPS / float64(workers)

	if p.opt.Reporter != nil {
		p.opt.Reporter.Start()
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		cfg := workerConfig{rps: perWorker, deadline: deadline}
		go func() {
			defer wg.Done()
			p.worker(ctx, cfg)
		}()
	}
	wg.Wait()

	if p.opt.Reporter != nil {
		p.opt.Reporter.Stop()
	}

	end := time.Now()
	return metrics.Summarize(p.opt.Collector.Outcomes(), start, end)
}
