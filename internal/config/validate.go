package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

var knownFormats = map[string]struct{}{
	"short":       {},
	"longform":    {},
	"live_replay": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateChannel(); err != nil {
		return err
	}
	if err := c.validateAutopilot(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateProvider(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateChannel() error {
	if strings.TrimSpace(c.Channel.DefaultCredential) == "" {
		return errors.New("channel.default_credential must be set")
	}
	return nil
}

func (c *Config) validateAutopilot() error {
	if c.Autopilot.PeriodSeconds <= 0 {
		return errors.New("autopilot.period_seconds must be positive")
	}
	if _, ok := knownFormats[c.Autopilot.Format]; !ok {
		return fmt.Errorf("autopilot.format must be one of short, longform, live_replay (got %q)", c.Autopilot.Format)
	}
	if c.Autopilot.RetentionLimit < 0 {
		return errors.New("autopilot.retention_limit must be >= 0")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.StageDelayMS < 0 {
		return errors.New("pipeline.stage_delay_ms must be >= 0")
	}
	return nil
}

func (c *Config) validateProvider() error {
	switch c.Provider.Mode {
	case "synthetic":
		if c.Provider.FailureRate < 0 || c.Provider.FailureRate > 1 {
			return errors.New("provider.failure_rate must be between 0 and 1")
		}
		if c.Provider.LatencyMS < 0 {
			return errors.New("provider.latency_ms must be >= 0")
		}
	case "remote":
		if c.Provider.APIKey == "" {
			defaultPath, err := DefaultConfigPath()
			if err != nil {
				defaultPath = "~/.config/autocast/config.toml"
			}
			return fmt.Errorf("provider.api_key is required for remote mode. Set OPENROUTER_API_KEY env var or edit %s (create with 'autocast config init')", defaultPath)
		}
		if c.Provider.BaseURL == "" {
			return errors.New("provider.base_url must be set for remote mode")
		}
		if c.Provider.Model == "" {
			return errors.New("provider.model must be set for remote mode")
		}
		if c.Provider.TimeoutSeconds <= 0 {
			return errors.New("provider.timeout_seconds must be positive")
		}
	default:
		return fmt.Errorf("provider.mode must be synthetic or remote (got %q)", c.Provider.Mode)
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.Bind == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(c.API.Bind); err != nil {
		return fmt.Errorf("api.bind must be host:port: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level)
	}
	return nil
}
