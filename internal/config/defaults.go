package config

const (
	defaultDataDir           = "~/.local/share/bindery"
	defaultLogLevel          = "info"
	defaultLogFormat         = "console"
	defaultFetchUserAgent    = "Mozilla/5.0 (X11; Linux x86_64; rv:140.0) Gecko/20100101 Firefox/140.0"
	defaultFetchTimeout      = 60
	defaultFetchMaxRetries   = 4
	defaultFetchDelaySeconds = 2
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		DataDir:   defaultDataDir,
		LogLevel:  defaultLogLevel,
		LogFormat: defaultLogFormat,
		Fetch: Fetch{
			UserAgent:      defaultFetchUserAgent,
			TimeoutSeconds: defaultFetchTimeout,
			MaxRetries:     defaultFetchMaxRetries,
			DelaySeconds:   defaultFetchDelaySeconds,
		},
	}
}
