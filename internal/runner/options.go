package runner

import (
	"context"
	"time"

	"github.com/atomintents/intentload/internal/metrics"
)

// maxWorkers caps pool fan-out; above maxWorkers*10 RPS each worker simply
// carries a higher per-worker rate.
const maxWorkers = 50

// PayloadSource supplies one opaque request body per call. Implementations
// must be safe for concurrent use by all workers.
type PayloadSource interface {
	Next() any
}

// Executor performs a single request attempt and classifies it.
type Executor interface {
	Execute(ctx context.Context, payload any) metrics.Outcome
}

// Reporter is an optional progress companion started with the workers and
// stopped once every worker has finished. Stop must be idempotent.
type Reporter interface {
	Start()
	Stop()
}

// Options configure a Pool.
type Options struct {
	TargetRPS float64       // aggregate request rate to distribute (required, > 0)
	Duration  time.Duration // run length (required, > 0)
	Source    PayloadSource // payload producer (required)
	Executor  Executor      // request executor (required)
	Collector *metrics.Collector // shared per-run outcome container (required)
	Reporter  Reporter      // optional progress reporter
}

// WorkerCount returns the pool fan-out for a target aggregate rate.
func WorkerCount(targetRPS float64) int {
	n := int(targetRPS/10) + 1
	if n > maxWorkers {
		n = maxWorkers
	}
	if n < 1 {
		n = 1
	}
	return n
}

// PerWorkerRPS returns the rate each worker carries so that the pool's
// aggregate equals targetRPS.
func PerWorkerRPS(targetRPS float64) float64 {
	return targetRPS / float64(WorkerCount(targetRPS))
}
