package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration. Runtime artifacts (socket, lock,
// PID file) live under the state directory; logs under the log directory.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Channel contains configuration for the channel link gate.
type Channel struct {
	DefaultCredential string `toml:"default_credential"`
	LinkLatencyMS     int    `toml:"link_latency_ms"`
}

// Autopilot contains configuration for the periodic upload scheduler.
type Autopilot struct {
	PeriodSeconds  int    `toml:"period_seconds"`
	AutoStart      bool   `toml:"auto_start"`
	Niche          string `toml:"niche"`
	Tone           string `toml:"tone"`
	Format         string `toml:"format"`
	RetentionLimit int    `toml:"retention_limit"`
}

// Pipeline contains configuration for synthetic stage timing.
type Pipeline struct {
	StageDelayMS int `toml:"stage_delay_ms"`
}

// Provider contains configuration for the growth metadata provider.
type Provider struct {
	Mode           string  `toml:"mode"`
	FailureRate    float64 `toml:"failure_rate"`
	LatencyMS      int     `toml:"latency_ms"`
	APIKey         string  `toml:"api_key"`
	BaseURL        string  `toml:"base_url"`
	Model          string  `toml:"model"`
	Referer        string  `toml:"referer"`
	Title          string  `toml:"title"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// API contains configuration for the HTTP status API.
type API struct {
	Bind  string `toml:"bind"`
	Token string `toml:"token"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for autocast.
//
// Configuration sections by subsystem:
//   - Paths: state and log directories
//   - Channel: link credential and simulated link latency
//   - Autopilot: schedule period, content defaults, retention
//   - Pipeline: per-stage synthetic delay
//   - Provider: growth metadata provider (synthetic or remote)
//   - API: optional HTTP status listener and bearer token
//   - Logging: log format, level, and retention
type Config struct {
	Paths     Paths     `toml:"paths"`
	Channel   Channel   `toml:"channel"`
	Autopilot Autopilot `toml:"autopilot"`
	Pipeline  Pipeline  `toml:"pipeline"`
	Provider  Provider  `toml:"provider"`
	API       API       `toml:"api"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/autocast/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("autocast.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SocketPath returns the Unix socket path used for daemon IPC.
func (c *Config) SocketPath() string {
	return filepath.Join(c.Paths.StateDir, "autocast.sock")
}

// LockPath returns the single-instance lock file path.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "autocast.lock")
}

// PIDPath returns the daemon PID file path.
func (c *Config) PIDPath() string {
	return filepath.Join(c.Paths.StateDir, "autocast.pid")
}

// Period returns the scheduler period as a duration.
func (c *Config) Period() time.Duration {
	return time.Duration(c.Autopilot.PeriodSeconds) * time.Second
}

// StageDelay returns the synthetic per-stage delay as a duration.
func (c *Config) StageDelay() time.Duration {
	return time.Duration(c.Pipeline.StageDelayMS) * time.Millisecond
}

// LinkLatency returns the simulated channel link latency as a duration.
func (c *Config) LinkLatency() time.Duration {
	return time.Duration(c.Channel.LinkLatencyMS) * time.Millisecond
}

// ProviderLatency returns the synthetic provider latency as a duration.
func (c *Config) ProviderLatency() time.Duration {
	return time.Duration(c.Provider.LatencyMS) * time.Millisecond
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
