package output

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/atomintents/intentload/internal/metrics"
)

// PrintReport outputs a human-readable summary report.
func PrintReport(w io.Writer, stats metrics.Stats) {
	fmt.Fprintln(w, "\n--- Load Test Results ---")
	fmt.Fprintf(w, "Duration:          %s\n", stats.EndTime.Sub(stats.StartTime).Round(time.Millisecond))
	fmt.Fprintf(w, "Total Intents:     %d\n", stats.Total)
	fmt.Fprintf(w, "Successful:        %d (%.1f%%)\n", stats.Successful, stats.SuccessRate())
	fmt.Fprintf(w, "Failed:            %d\n", stats.Failed)
	fmt.Fprintf(w, "Requests/sec:      %.2f\n", stats.RequestsPerSecond())
	fmt.Fprintln(w, "\nLatency:")
	fmt.Fprintf(w, "  Average:         %.2f ms\n", stats.AvgLatency())
	fmt.Fprintf(w, "  P50:             %.2f ms\n", stats.P50Latency())
	fmt.Fprintf(w, "  P95:             %.2f ms\n", stats.P95Latency())
	fmt.Fprintf(w, "  P99:             %.2f ms\n", stats.P99Latency())
	fmt.Fprintf(w, "  Min:             %.2f ms\n", stats.MinLatency())
	fmt.Fprintf(w, "  Max:             %.2f ms\n", stats.MaxLatency())

	fmt.Fprintln(w, "\nErrors:")
	if len(stats.ErrorCounts) == 0 {
		fmt.Fprintln(w, "  None")
		return
	}
	keys := make([]string, 0, len(stats.ErrorCounts))
	for key := range stats.ErrorCounts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if stats.ErrorCounts[keys[i]] != stats.ErrorCounts[keys[j]] {
			return stats.ErrorCounts[keys[i]] > stats.ErrorCounts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	for _, key := range keys {
		fmt.Fprintf(w, "  %s: %d\n", key, stats.ErrorCounts[key])
	}
}
