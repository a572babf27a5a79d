// Package config loads the gateway's process-wide configuration once at
// startup. Layering follows the usual Viper convention: defaults, then an
// optional YAML file, then LAMBDA_GATEWAY_-prefixed environment variables,
// then explicit overrides passed in from the CLI flags.
package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config is the gateway's immutable, process-wide configuration. It is
// loaded once and injected into every component via fx.Provide.
type Config struct {
	// ListenAddr is the single address both the caller-facing and the
	// worker-facing HTTP surfaces are served on, and the value advertised
	// to workers as AWS_LAMBDA_RUNTIME_API.
	ListenAddr string

	// WorkerCommand and WorkerArgs describe the worker executable the
	// process spawner launches.
	WorkerCommand string
	WorkerArgs    []string

	// WorkerLifetime is the age budget after which a worker becomes
	// eligible for reaping.
	WorkerLifetime time.Duration

	// GCInterval is the cadence of the runtime manager's reaper tick.
	GCInterval time.Duration

	// TraceIDConstant, FunctionArn and DeadlineMs are emitted verbatim in
	// the worker-facing "invocation/next" response headers; spec.md
	// accepts constant values for all three.
	TraceIDConstant string
	FunctionArn     string
	DeadlineMs      int

	// Dev switches the logger from JSON to human-readable text output.
	Dev bool
}

// Default returns the reference configuration from spec.md §4.C and §6:
// localhost:9001, a 10s worker lifetime for demonstration, and a 1s GC
// cadence.
func Default() Config {
	return Config{
		ListenAddr:      "localhost:9001",
		WorkerCommand:   "./main",
		WorkerArgs:      nil,
		WorkerLifetime:  10 * time.Second,
		GCInterval:      1 * time.Second,
		TraceIDConstant: "trace-id",
		FunctionArn:     "arn:aws:lambda:us-east-1:123456789012:function:my-function",
		DeadlineMs:      3000,
	}
}

// Load reads configFile (if non-empty) and environment overrides on top of
// Default(), then returns the resolved Config.
func Load(configFile string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetEnvPrefix("LAMBDA_GATEWAY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen_addr", cfg.ListenAddr)
	v.SetDefault("worker_command", cfg.WorkerCommand)
	v.SetDefault("worker_lifetime", cfg.WorkerLifetime)
	v.SetDefault("gc_interval", cfg.GCInterval)
	v.SetDefault("trace_id", cfg.TraceIDConstant)
	v.SetDefault("function_arn", cfg.FunctionArn)
	v.SetDefault("deadline_ms", cfg.DeadlineMs)
	v.SetDefault("dev", cfg.Dev)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrap(err, "config: read config file")
		}
	}

	cfg.ListenAddr = v.GetString("listen_addr")
	cfg.WorkerCommand = v.GetString("worker_command")
	cfg.WorkerLifetime = v.GetDuration("worker_lifetime")
	cfg.GCInterval = v.GetDuration("gc_interval")
	cfg.TraceIDConstant = v.GetString("trace_id")
	cfg.FunctionArn = v.GetString("function_arn")
	cfg.DeadlineMs = v.GetInt("deadline_ms")
	cfg.Dev = v.GetBool("dev")

	return cfg, nil
}
