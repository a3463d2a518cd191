package output

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/atomintents/intentload/internal/metrics"
)

// RunConfig is the slice of configuration echoed into the file report so a
// saved run is self-describing.
type RunConfig struct {
	TargetURL       string  `json:"target_url"`
	RPS             float64 `json:"rps"`
	DurationSeconds int     `json:"duration_seconds"`
	Concurrent      int     `json:"concurrent"`
}

// RunResults holds the aggregate numbers of a completed run.
type RunResults struct {
	TotalRequests      int            `json:"total_requests"`
	SuccessfulRequests int            `json:"successful_requests"`
	FailedRequests     int            `json:"failed_requests"`
	SuccessRate        float64        `json:"success_rate"`
	RequestsPerSecond  float64        `json:"requests_per_second"`
	LatencyAvgMs       float64        `json:"latency_avg_ms"`
	LatencyP50Ms       float64        `json:"latency_p50_ms"`
	LatencyP95Ms       float64        `json:"latency_p95_ms"`
	LatencyP99Ms       float64        `json:"latency_p99_ms"`
	LatencyMinMs       float64        `json:"latency_min_ms"`
	LatencyMaxMs       float64        `json:"latency_max_ms"`
	Errors             map[string]int `json:"errors"`
}

// Report is the persisted form of a run.
type Report struct {
	RunID       string     `json:"run_id"`
	GeneratedAt time.Time  `json:"generated_at"`
	Config      RunConfig  `json:"config"`
	Results     RunResults `json:"results"`
}

// NewReport builds a Report from a run's configuration echo and final stats.
// Each report gets a fresh lexicographically sortable run ID.
func NewReport(cfg RunConfig, stats metrics.Stats) Report {
	errs := stats.ErrorCounts
	if errs == nil {
		errs = map[string]int{}
	}
	return Report{
		RunID:       ulid.Make().String(),
		GeneratedAt: time.Now().UTC(),
		Config:      cfg,
		Results: RunResults{
			TotalRequests:      stats.Total,
			SuccessfulRequests: stats.Successful,
			FailedRequests:     stats.Failed,
			SuccessRate:        stats.SuccessRate(),
			RequestsPerSecond:  stats.RequestsPerSecond(),
			LatencyAvgMs:       stats.AvgLatency(),
			LatencyP50Ms:       stats.P50Latency(),
			LatencyP95Ms:       stats.P95Latency(),
			LatencyP99Ms:       stats.P99Latency(),
			LatencyMinMs:       stats.MinLatency(),
			LatencyMaxMs:       stats.MaxLatency(),
			Errors:             errs,
		},
	}
}

// WriteReport serializes the report as indented JSON at path.
func WriteReport(path string, report Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
