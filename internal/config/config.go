// Package config loads and validates load test configuration from CLI flags
// and optional config files.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config describes one load test run. It is immutable once validated.
type Config struct {
	TargetURL       string        `mapstructure:"target"`
	RPS             float64       `mapstructure:"rps"`
	DurationSeconds int           `mapstructure:"duration"`
	Concurrency     int           `mapstructure:"concurrent"`
	Output          string        `mapstructure:"output"`
	Timeout         time.Duration `mapstructure:"timeout"`
	Seed            int64         `mapstructure:"seed"`
	LogErrors       bool          `mapstructure:"log_errors"`
	Dashboard       bool          `mapstructure:"dashboard"`
	Tracing         TracingConfig `mapstructure:"tracing"`
	ConfigFile      string        `mapstructure:"-"`
}

// TracingConfig configures optional OTLP trace export.
type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	Protocol    string  `mapstructure:"protocol"` // "grpc" or "http"
	ServiceName string  `mapstructure:"service_name"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// Enabled reports whether trace export is configured.
func (t TracingConfig) Enabled() bool {
	return strings.TrimSpace(t.Endpoint) != ""
}

// Duration returns the run duration as a time.Duration.
func (c Config) Duration() time.Duration {
	return time.Duration(c.DurationSeconds) * time.Second
}

// ValidationError aggregates every configuration issue found.
type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

func (c Config) Validate() error {
	var issues []string

	target := strings.TrimSpace(c.TargetURL)
	if target == "" {
		issues = append(issues, "target is required")
	} else if u, err := url.Parse(target); err != nil {
		issues = append(issues, fmt.Sprintf("target is not a valid URL: %v", err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		issues = append(issues, fmt.Sprintf("target scheme must be http or https, got %q", u.Scheme))
	}

	if c.RPS <= 0 {
		issues = append(issues, "rps must be > 0")
	}
	if c.DurationSeconds <= 0 {
		issues = append(issues, "duration must be > 0")
	}
	if c.Concurrency < 1 {
		issues = append(issues, "concurrent must be >= 1")
	}
	if c.Timeout < 0 {
		issues = append(issues, "timeout must be >= 0")
	}

	if c.Tracing.Enabled() {
		switch strings.ToLower(strings.TrimSpace(c.Tracing.Protocol)) {
		case "", "grpc", "http":
		default:
			issues = append(issues, fmt.Sprintf("tracing protocol must be 'grpc' or 'http', got %q", c.Tracing.Protocol))
		}
		if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
			issues = append(issues, fmt.Sprintf("tracing sample_rate must be between 0.0 and 1.0, got %g", c.Tracing.SampleRate))
		}
	}

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}
