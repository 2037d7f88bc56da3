package testsupport

import (
	"path/filepath"
	"testing"

	"autocast/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Simulated latencies are zeroed so tests run at full speed; options tune the
// rest.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Channel.LinkLatencyMS = 0
	cfgVal.Pipeline.StageDelayMS = 0
	cfgVal.Provider.LatencyMS = 0
	cfgVal.Provider.FailureRate = 0
	cfgVal.API.Bind = "127.0.0.1:0"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithPeriod overrides the auto-upload countdown period in seconds.
func WithPeriod(seconds int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Autopilot.PeriodSeconds = seconds
	}
}

// WithFailureRate sets the synthetic provider failure rate.
func WithFailureRate(rate float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Provider.FailureRate = rate
	}
}

// WithRetentionLimit caps how many terminal records the daemon keeps.
func WithRetentionLimit(limit int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Autopilot.RetentionLimit = limit
	}
}

// WithFormat sets the default content format for triggered uploads.
func WithFormat(format string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Autopilot.Format = format
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
