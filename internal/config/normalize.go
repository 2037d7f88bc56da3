package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeChannel()
	c.normalizeAutopilot()
	c.normalizeProvider()
	c.normalizeAPI()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeChannel() {
	c.Channel.DefaultCredential = strings.TrimSpace(c.Channel.DefaultCredential)
	if c.Channel.DefaultCredential == "" {
		c.Channel.DefaultCredential = defaultCredential
	}
	if c.Channel.LinkLatencyMS < 0 {
		c.Channel.LinkLatencyMS = 0
	}
}

func (c *Config) normalizeAutopilot() {
	c.Autopilot.Niche = strings.TrimSpace(c.Autopilot.Niche)
	if c.Autopilot.Niche == "" {
		c.Autopilot.Niche = defaultNiche
	}
	c.Autopilot.Tone = strings.TrimSpace(c.Autopilot.Tone)
	if c.Autopilot.Tone == "" {
		c.Autopilot.Tone = defaultTone
	}
	c.Autopilot.Format = strings.ToLower(strings.TrimSpace(c.Autopilot.Format))
	if c.Autopilot.Format == "" {
		c.Autopilot.Format = defaultFormat
	}
}

func (c *Config) normalizeProvider() {
	c.Provider.Mode = strings.ToLower(strings.TrimSpace(c.Provider.Mode))
	if c.Provider.Mode == "" {
		c.Provider.Mode = defaultProviderMode
	}
	c.Provider.APIKey = strings.TrimSpace(c.Provider.APIKey)
	if c.Provider.APIKey == "" {
		c.Provider.APIKey = strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY"))
	}
	c.Provider.BaseURL = strings.TrimSpace(c.Provider.BaseURL)
	if c.Provider.BaseURL == "" {
		c.Provider.BaseURL = defaultProviderBaseURL
	}
	c.Provider.Model = strings.TrimSpace(c.Provider.Model)
	if c.Provider.Model == "" {
		c.Provider.Model = defaultProviderModel
	}
	if c.Provider.TimeoutSeconds <= 0 {
		c.Provider.TimeoutSeconds = defaultProviderTimeout
	}
}

func (c *Config) normalizeAPI() {
	c.API.Bind = strings.TrimSpace(c.API.Bind)
	c.API.Token = strings.TrimSpace(c.API.Token)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
