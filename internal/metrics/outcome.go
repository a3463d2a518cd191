package metrics

import (
	"fmt"
	"time"
)

// Error kinds recorded on failed outcomes. A non-200 response leaves the
// kind empty; the aggregator derives an "HTTP {status}" key instead.
const (
	ErrorKindTimeout     = "timeout"
	ErrorKindConnRefused = "connection_refused"
	ErrorKindConnReset   = "connection_reset"
	ErrorKindDNS         = "dns_error"
	ErrorKindTransport   = "transport_error"
	ErrorKindUnexpected  = "unexpected_error"
)

// Outcome is the classified result of exactly one request attempt.
// It is immutable once created.
type Outcome struct {
	Success    bool
	LatencyMs  float64
	StatusCode int    // 0 when no response was received
	ErrorKind  string // empty on success and on plain HTTP status failures
	ObservedAt time.Time
}

// ErrorKey returns the error_counts bucket for a failed outcome: the error
// kind when one was recorded, otherwise "HTTP {status}".
func (o Outcome) ErrorKey() string {
	if o.ErrorKind != "" {
		return o.ErrorKind
	}
	return fmt.Sprintf("HTTP %d", o.StatusCode)
}
