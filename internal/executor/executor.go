// Package executor issues single intent-submission requests and classifies
// their outcomes.
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/semaphore"

	"github.com/atomintents/intentload/internal/httpclient"
	"github.com/atomintents/intentload/internal/metrics"
	"github.com/atomintents/intentload/internal/tracing"
)

const (
	intentsPath = "/api/v1/intents"

	// DefaultTimeout bounds each request from initiation to classification.
	DefaultTimeout = 30 * time.Second
)

// FailureLogger receives every failed outcome as it happens.
type FailureLogger interface {
	LogFailure(metrics.Outcome)
}

// Options configure an Executor.
type Options struct {
	TargetURL   string        // base URL of the service under test (required)
	Timeout     time.Duration // per-request timeout (default 30s)
	MaxInFlight int64         // system-wide in-flight request bound (required, > 0)
	Tracing     *tracing.Provider
	FailureLog  FailureLogger
}

// Executor posts intent payloads to the target and returns classified
// outcomes. A single Executor is shared by all workers; its semaphore
// bounds in-flight requests system-wide.
type Executor struct {
	client     *http.Client
	limiter    *semaphore.Weighted
	endpoint   string
	timeout    time.Duration
	tracing    *tracing.Provider
	failureLog FailureLogger
}

// New builds the shared transport and validates the target. This is the
// only fatal path: once New succeeds, individual request failures are
// recorded as outcomes and never abort the run.
func New(opt Options) (*Executor, error) {
	target := strings.TrimRight(strings.TrimSpace(opt.TargetURL), "/")
	if target == "" {
		return nil, errors.New("target URL is required")
	}
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("parse target URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported target scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, errors.New("target URL has no host")
	}
	if opt.MaxInFlight < 1 {
		return nil, errors.New("in-flight limit must be >= 1")
	}

	timeout := opt.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	maxPerHost := int(opt.MaxInFlight)
	if maxPerHost > 256 {
		maxPerHost = 256
	}

	return &Executor{
		client:     httpclient.NewClient(timeout, maxPerHost),
		limiter:    semaphore.NewWeighted(opt.MaxInFlight),
		endpoint:   target + intentsPath,
		timeout:    timeout,
		tracing:    opt.Tracing,
		failureLog: opt.FailureLog,
	}, nil
}

// Execute posts one payload and classifies the result. Latency is measured
// from call entry through classification, including time queued on the
// in-flight limiter. Exactly one outcome is produced per call.
func (e *Executor) Execute(ctx context.Context, payload any) metrics.Outcome {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	if err := e.limiter.Acquire(ctx, 1); err != nil {
		return e.finish(start, metrics.Outcome{ErrorKind: classifyErrorKind(err)})
	}
	defer e.limiter.Release(1)

	body, err := json.Marshal(payload)
	if err != nil {
		return e.finish(start, metrics.Outcome{ErrorKind: metrics.ErrorKindUnexpected})
	}

	reqCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	reqCtx, span := tracing.StartRequestSpan(reqCtx, e.tracing.Tracer(), e.endpoint)

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		tracing.EndSpan(span, err)
		return e.finish(start, metrics.Outcome{ErrorKind: metrics.ErrorKindUnexpected})
	}
	req.Header.Set("Content-Type", "application/json")
	if e.tracing.ShouldPropagate() {
		tracing.InjectHTTPHeaders(reqCtx, req.Header)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		tracing.EndSpan(span, err)
		return e.finish(start, metrics.Outcome{ErrorKind: classifyErrorKind(err)})
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	outcome := metrics.Outcome{
		Success:    resp.StatusCode == http.StatusOK,
		StatusCode: resp.StatusCode,
	}
	tracing.EndSpan(span, nil, attribute.Int("http.status_code", resp.StatusCode))
	return e.finish(start, outcome)
}

func (e *Executor) finish(start time.Time, outcome metrics.Outcome) metrics.Outcome {
	outcome.LatencyMs = float64(time.Since(start)) / float64(time.Millisecond)
	outcome.ObservedAt = time.Now()
	if !outcome.Success && e.failureLog != nil {
		e.failureLog.LogFailure(outcome)
	}
	return outcome
}

// classifyErrorKind maps a request error to a stable outcome kind, checked
// in order: timeout, then transport failures, then a generic fallback.
func classifyErrorKind(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return metrics.ErrorKindTimeout
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return metrics.ErrorKindTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return metrics.ErrorKindDNS
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return metrics.ErrorKindConnRefused
	}
	if errors.Is(err, syscall.ECONNRESET) {
		return metrics.ErrorKindConnReset
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return metrics.ErrorKindTransport
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return metrics.ErrorKindTransport
	}

	return metrics.ErrorKindUnexpected
}
