package runner

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// workerConfig is built once at pool start and never mutated; workers share
// nothing but the deadline value and the pool's collaborators.
type workerConfig struct {
	rps      float64
	deadline time.Time
}

// worker runs one paced request loop until the shared deadline. The pacing
// wait happens after each request, so an attempt started just before the
// deadline is allowed to finish; the loop then observes the deadline and
// exits.
func (p *Pool) worker(ctx context.Context, cfg workerConfig) {
	limiter := rate.NewLimiter(rate.Limit(cfg.rps), 1)

	// Bound the pacing wait by the deadline so workers exit promptly
	// instead of sleeping through it.
	waitCtx, cancel := context.WithDeadline(ctx, cfg.deadline)
	defer cancel()

	for time.Now().Before(cfg.deadline) {
		if ctx.Err() != nil {
			return
		}

		payload := p.opt.Source.Next()
		outcome := p.opt.Executor.Execute(ctx, payload)
		p.opt.Collector.Append(outcome)

		if err := limiter.Wait(waitCtx); err != nil {
			return
		}
	}
}
