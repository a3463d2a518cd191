// Package runner provides the rate-controlled worker pool at the heart of
// intentload.
//
// The pool splits a target aggregate request rate across a bounded number
// of workers:
//
//	workers = min(floor(targetRPS/10)+1, 50)
//	perWorkerRPS = targetRPS / workers
//
// Each worker runs an independent paced loop against a shared deadline:
// fetch a payload, execute the request, append the outcome, wait out the
// pacing interval, re-check the deadline. Pacing uses a per-worker
// rate.Limiter so intervals stay uniform without coordination between
// workers.
//
// # Contracts
//
//   - Per-worker configuration is immutable and built once at pool start.
//   - Outcomes from a single worker are appended in the order produced;
//     no ordering holds across workers.
//   - An in-flight request is never pre-empted at the deadline, so a worker
//     may emit at most one outcome past it (bounded by the request
//     timeout). This drift is accepted, not corrected.
//   - Individual request failures never abort the run.
//
// # Usage
//
//	pool, err := runner.New(runner.Options{
//		TargetRPS: 100,
//		Duration:  time.Minute,
//		Source:    source,
//		Executor:  exec,
//		Collector: collector,
//	})
//	stats := pool.Run(ctx)
package runner
