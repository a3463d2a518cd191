// Package metrics collects per-request outcomes and aggregates them into
// run statistics.
//
// The [Collector] type is the shared per-run container that workers append
// [Outcome] values into. It is safe for concurrent appends; outcomes from a
// single worker keep the order that worker produced them. Alongside the raw
// outcome sequence the Collector maintains an HdrHistogram so that live
// reporters (progress line, dashboard) can take cheap snapshots while the
// run is in flight:
//
//	collector := metrics.NewCollector()
//	collector.Append(outcome)
//	live := collector.Live(elapsed)
//
// Final statistics are computed once, after every worker has finished, by
// the pure function [Summarize]:
//
//	stats := metrics.Summarize(collector.Outcomes(), start, end)
//
// # Percentiles
//
// Summary percentiles use nearest-rank truncation over the raw latency
// sequence (sort ascending, index = floor(len*p), clamped to len-1), not
// interpolation. A single-element sample therefore yields that element for
// every percentile. The live histogram is only used for in-flight snapshots
// and never feeds the final report.
package metrics
