package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// newFlagCommand creates a cobra command with all flags configured.
func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "intentload",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)
	configureFlags(cmd.Flags())
	return cmd
}

// configureFlags sets up all CLI flags on the provided flag set.
func configureFlags(flags *pflag.FlagSet) {
	// Core load control flags
	flags.String("target", "http://localhost:8080", "Target base URL")
	flags.Float64("rps", 10, "Target aggregate requests per second")
	flags.IntP("duration", "d", 60, "Test duration in seconds")
	flags.IntP("concurrent", "c", 100, "Maximum concurrent in-flight requests")
	flags.StringP("output", "o", "", "Output file for results (JSON)")
	flags.Duration("timeout", 30*time.Second, "Per-request timeout")
	flags.Int64("seed", 0, "Seed for the intent generator (0 = time-based)")

	// Output flags
	flags.Bool("log-errors", false, "Log each failed request to stderr")
	flags.Bool("dashboard", false, "Show live terminal dashboard with metrics")
	flags.String("config", "", "Path to configuration file (JSON or YAML)")

	// Tracing flags
	flags.String("trace-endpoint", "", "OTLP endpoint for trace export (empty = disabled)")
	flags.String("trace-protocol", "grpc", "OTLP protocol: 'grpc' or 'http'")
	flags.String("trace-service", "", "Service name reported on spans")
	flags.Bool("trace-insecure", false, "Skip TLS for the OTLP exporter")
	flags.Float64("trace-sample-rate", 1.0, "Trace sampling ratio (0.0-1.0)")
}

// displayHelp prints the help message for a command.
func displayHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Usage: %s\n\nFlags:\n", cmd.UseLine())
	fs := cmd.Flags()
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// applyFlagOverrides applies command-line flag values to the config,
// overriding values from the config file.
func applyFlagOverrides(cfg *Config, fs *pflag.FlagSet) error {
	if fs.Changed("target") {
		val, err := fs.GetString("target")
		if err != nil {
			return err
		}
		cfg.TargetURL = strings.TrimSpace(val)
	}
	if fs.Changed("rps") {
		val, err := fs.GetFloat64("rps")
		if err != nil {
			return err
		}
		cfg.RPS = val
	}
	if fs.Changed("duration") {
		val, err := fs.GetInt("duration")
		if err != nil {
			return err
		}
		cfg.DurationSeconds = val
	}
	if fs.Changed("concurrent") {
		val, err := fs.GetInt("concurrent")
		if err != nil {
			return err
		}
		cfg.Concurrency = val
	}
	if fs.Changed("output") {
		val, err := fs.GetString("output")
		if err != nil {
			return err
		}
		cfg.Output = strings.TrimSpace(val)
	}
	if fs.Changed("timeout") {
		val, err := fs.GetDuration("timeout")
		if err != nil {
			return err
		}
		cfg.Timeout = val
	}
	if fs.Changed("seed") {
		val, err := fs.GetInt64("seed")
		if err != nil {
			return err
		}
		cfg.Seed = val
	}
	if fs.Changed("log-errors") {
		val, err := fs.GetBool("log-errors")
		if err != nil {
			return err
		}
		cfg.LogErrors = val
	}
	if fs.Changed("dashboard") {
		val, err := fs.GetBool("dashboard")
		if err != nil {
			return err
		}
		cfg.Dashboard = val
	}
	if fs.Changed("trace-endpoint") {
		val, err := fs.GetString("trace-endpoint")
		if err != nil {
			return err
		}
		cfg.Tracing.Endpoint = strings.TrimSpace(val)
	}
	if fs.Changed("trace-protocol") {
		val, err := fs.GetString("trace-protocol")
		if err != nil {
			return err
		}
		cfg.Tracing.Protocol = strings.ToLower(strings.TrimSpace(val))
	}
	if fs.Changed("trace-service") {
		val, err := fs.GetString("trace-service")
		if err != nil {
			return err
		}
		cfg.Tracing.ServiceName = strings.TrimSpace(val)
	}
	if fs.Changed("trace-insecure") {
		val, err := fs.GetBool("trace-insecure")
		if err != nil {
			return err
		}
		cfg.Tracing.Insecure = val
	}
	if fs.Changed("trace-sample-rate") {
		val, err := fs.GetFloat64("trace-sample-rate")
		if err != nil {
			return err
		}
		cfg.Tracing.SampleRate = val
	}

	return nil
}
