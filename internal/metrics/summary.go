package metrics

import (
	"sort"
	"time"
)

// Stats is the aggregate of a completed run. It is built once by Summarize
// and read-only thereafter.
type Stats struct {
	Total       int
	Successful  int
	Failed      int
	Latencies   []float64 // insertion order, one entry per outcome
	ErrorCounts map[string]int
	StartTime   time.Time
	EndTime     time.Time
}

// Summarize reduces a run's outcome sequence to aggregate statistics. It is
// a pure function of its inputs and never mutates outcomes.
func Summarize(outcomes []Outcome, start, end time.Time) Stats {
	stats := Stats{
		Latencies:   make([]float64, 0, len(outcomes)),
		ErrorCounts: make(map[string]int),
		StartTime:   start,
		EndTime:     end,
	}

	for _, o := range outcomes {
		stats.Total++
		stats.Latencies = append(stats.Latencies, o.LatencyMs)
		if o.Success {
			stats.Successful++
		} else {
			stats.Failed++
			stats.ErrorCounts[o.ErrorKey()]++
		}
	}

	return stats
}

// SuccessRate returns the percentage of successful requests, 0 when no
// requests were made.
func (s Stats) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Successful) / float64(s.Total) * 100
}

// RequestsPerSecond returns the observed throughput, 0 when the run had no
// measurable duration.
func (s Stats) RequestsPerSecond() float64 {
	duration := s.EndTime.Sub(s.StartTime)
	if duration == 0 {
		return 0
	}
	return float64(s.Total) / duration.Seconds()
}

// AvgLatency returns the mean latency in milliseconds, 0 for an empty run.
func (s Stats) AvgLatency() float64 {
	if len(s.Latencies) == 0 {
		return 0
	}
	var sum float64
	for _, l := range s.Latencies {
		sum += l
	}
	return sum / float64(len(s.Latencies))
}

func (s Stats) P50Latency() float64 { return percentile(s.Latencies, 0.50) }
func (s Stats) P95Latency() float64 { return percentile(s.Latencies, 0.95) }
func (s Stats) P99Latency() float64 { return percentile(s.Latencies, 0.99) }

// MinLatency returns the smallest observed latency, 0 for an empty run.
func (s Stats) MinLatency() float64 {
	if len(s.Latencies) == 0 {
		return 0
	}
	min := s.Latencies[0]
	for _, l := range s.Latencies[1:] {
		if l < min {
			min = l
		}
	}
	return min
}

// MaxLatency returns the largest observed latency, 0 for an empty run.
func (s Stats) MaxLatency() float64 {
	if len(s.Latencies) == 0 {
		return 0
	}
	max := s.Latencies[0]
	for _, l := range s.Latencies[1:] {
		if l > max {
			max = l
		}
	}
	return max
}

// percentile computes a nearest-rank percentile with truncation: sort
// ascending, index = floor(len*p), clamped to the last element. No
// interpolation; a single-element sample yields that element for every
// percentile.
func percentile(latencies []float64, p float64) float64 {
	if len(latencies) == 0 {
		return 0
	}
	sorted := append([]float64(nil), latencies...)
	sort.Float64s(sorted)

	idx := int(float64(len(sorted)) * p)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
