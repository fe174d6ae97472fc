// Package nmconfig provides layered configuration for nmstate-go
// tooling (cmd/nmstatectl and anything else embedding the engine).
//
// Configuration is loaded in the following order, later steps
// overriding earlier ones:
//  1. Default values
//  2. Configuration file (if NMSTATE_CONFIG_FILE points at one)
//  3. Environment variable overrides (NMSTATE_*)
package nmconfig

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration structure.
type Config struct {
	// Apply contains defaults for the apply orchestrator (C4).
	Apply ApplyConfig `json:"apply" yaml:"apply"`

	// OVSDB contains connection settings for the OVSDB capability.
	OVSDB OVSDBConfig `json:"ovsdb" yaml:"ovsdb"`

	// Backend contains connection settings for the NetworkManager-like
	// Backend capability.
	Backend BackendConfig `json:"backend" yaml:"backend"`

	// Logging contains logging configuration.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// ApplyConfig mirrors the apply-time knobs the orchestrator exposes.
type ApplyConfig struct {
	// Timeout is the default checkpoint timeout. Default: 60s.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// RetryBaseInterval is the first retry delay for retryable
	// activation errors. Default: 1s.
	RetryBaseInterval time.Duration `json:"retryBaseInterval" yaml:"retryBaseInterval"`

	// RetryMaxAttempts bounds the retry loop. Default: 6.
	RetryMaxAttempts int `json:"retryMaxAttempts" yaml:"retryMaxAttempts"`

	// VerifyRetryAttempts bounds the post-apply verify loop in the
	// common case. Default: 5. SR-IOV topology changes and kernel-only
	// mode use different budgets set directly by the orchestrator
	// caller.
	VerifyRetryAttempts int `json:"verifyRetryAttempts" yaml:"verifyRetryAttempts"`

	// VerifyRetryInterval is the delay between verify attempts. Default: 1s.
	VerifyRetryInterval time.Duration `json:"verifyRetryInterval" yaml:"verifyRetryInterval"`
}

// OVSDBConfig contains OVSDB connection settings.
type OVSDBConfig struct {
	// Address is the OVSDB JSON-RPC endpoint, e.g. "unix:/run/openvswitch/db.sock".
	Address string `json:"address" yaml:"address"`

	// ConnectTimeout bounds the initial connection. Default: 10s.
	ConnectTimeout time.Duration `json:"connectTimeout" yaml:"connectTimeout"`
}

// BackendConfig contains settings for the NetworkManager-like backend.
type BackendConfig struct {
	// SocketPath is the backend's control socket, e.g. a D-Bus address.
	// Empty selects the in-memory reference backend (pkg/backend/memory),
	// which is what cmd/nmstatectl uses since the real transport is
	// out of scope.
	SocketPath string `json:"socketPath" yaml:"socketPath"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is "debug", "info", "warn", or "error". Default: "info".
	Level string `json:"level" yaml:"level"`

	// Format is "json" or "text". Default: "json".
	Format string `json:"format" yaml:"format"`

	// File is a log file path. Empty means stdout.
	File string `json:"file" yaml:"file"`
}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		Apply: ApplyConfig{
			Timeout:             60 * time.Second,
			RetryBaseInterval:   1 * time.Second,
			RetryMaxAttempts:    6,
			VerifyRetryAttempts: 5,
			VerifyRetryInterval: 1 * time.Second,
		},
		OVSDB: OVSDBConfig{
			Address:        "unix:/run/openvswitch/db.sock",
			ConnectTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds a Config from defaults, an optional file named by the
// NMSTATE_CONFIG_FILE environment variable, and NMSTATE_* overrides.
func Load() (*Config, error) {
	cfg := Default()

	if file := os.Getenv("NMSTATE_CONFIG_FILE"); file != "" {
		if err := cfg.LoadFromFile(file); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", file, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadFromFile loads and merges configuration from a YAML (or JSON,
// which is a YAML subset) file on top of the receiver.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// applyEnvOverrides overlays NMSTATE_* environment variables.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("NMSTATE_APPLY_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Apply.Timeout = d
		}
	}
	if v := os.Getenv("NMSTATE_RETRY_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Apply.RetryMaxAttempts = n
		}
	}
	if v := os.Getenv("NMSTATE_OVSDB_ADDRESS"); v != "" {
		c.OVSDB.Address = v
	}
	if v := os.Getenv("NMSTATE_BACKEND_SOCKET"); v != "" {
		c.Backend.SocketPath = v
	}
	if v := os.Getenv("NMSTATE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("NMSTATE_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	var problems []string

	if c.Apply.Timeout <= 0 {
		problems = append(problems, "apply.timeout must be positive")
	}
	if c.Apply.RetryMaxAttempts <= 0 {
		problems = append(problems, "apply.retryMaxAttempts must be positive")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("invalid logging.level: %s", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		problems = append(problems, fmt.Sprintf("invalid logging.format: %s", c.Logging.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
