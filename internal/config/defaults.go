package config

const (
	defaultJSONColumn          = "output"
	defaultImageColumn         = "image_url"
	defaultScoringThreshold    = 50
	defaultFontSize            = 15
	defaultRenderOutputDir     = "."
	defaultFetchTimeoutSeconds = 10
	defaultFetchUserAgent      = "Mozilla/5.0"
	defaultServerBind          = "127.0.0.1:8313"
	defaultReportsDir          = "~/.local/share/podverify"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Dataset: Dataset{
			JSONColumn:  defaultJSONColumn,
			ImageColumn: defaultImageColumn,
		},
		Scoring: Scoring{
			Threshold: defaultScoringThreshold,
		},
		Render: Render{
			FontSize:  defaultFontSize,
			OutputDir: defaultRenderOutputDir,
		},
		Fetch: Fetch{
			TimeoutSeconds: defaultFetchTimeoutSeconds,
			UserAgent:      defaultFetchUserAgent,
		},
		Server: Server{
			Bind: defaultServerBind,
		},
		Reports: Reports{
			Dir: defaultReportsDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
