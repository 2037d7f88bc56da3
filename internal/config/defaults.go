package config

const (
	defaultStateDir          = "~/.local/share/autocast"
	defaultLogDir            = "~/.local/share/autocast/logs"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultLogRetentionDays  = 30
	defaultCredential        = "studio-operator"
	defaultLinkLatencyMS     = 1200
	defaultPeriodSeconds     = 60
	defaultNiche             = "ai_tools"
	defaultTone              = "energetic"
	defaultFormat            = "short"
	defaultStageDelayMS      = 2000
	defaultProviderMode      = "synthetic"
	defaultFailureRate       = 0.15
	defaultProviderLatencyMS = 800
	defaultProviderBaseURL   = "https://openrouter.ai/api/v1/chat/completions"
	defaultProviderModel     = "google/gemini-3-flash-preview"
	defaultProviderReferer   = "https://github.com/autocast/autocast"
	defaultProviderTitle     = "Autocast Growth Engine"
	defaultProviderTimeout   = 60
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Channel: Channel{
			DefaultCredential: defaultCredential,
			LinkLatencyMS:     defaultLinkLatencyMS,
		},
		Autopilot: Autopilot{
			PeriodSeconds:  defaultPeriodSeconds,
			AutoStart:      false,
			Niche:          defaultNiche,
			Tone:           defaultTone,
			Format:         defaultFormat,
			RetentionLimit: 0,
		},
		Pipeline: Pipeline{
			StageDelayMS: defaultStageDelayMS,
		},
		Provider: Provider{
			Mode:           defaultProviderMode,
			FailureRate:    defaultFailureRate,
			LatencyMS:      defaultProviderLatencyMS,
			BaseURL:        defaultProviderBaseURL,
			Model:          defaultProviderModel,
			Referer:        defaultProviderReferer,
			Title:          defaultProviderTitle,
			TimeoutSeconds: defaultProviderTimeout,
		},
		API: API{},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
