package config

const (
	defaultCacheDir                 = "~/.cache/decklens"
	defaultLogDir                   = "~/.local/share/decklens/logs"
	defaultLogFormat                = "console"
	defaultLogLevel                 = "info"
	defaultCacheTTLSeconds          = 7200
	defaultCacheMaxEntries          = 10000
	defaultCacheSweepSeconds        = 300
	defaultResolverThreshold        = 0.6
	defaultPopularThreshold         = 0.85
	defaultResolverMaxResults       = 5
	defaultOracleBaseURL            = "https://api.scryfall.com"
	defaultOracleRateLimitMillis    = 100
	defaultOracleTimeoutSeconds     = 10
	defaultVisionModel              = "gpt-4o"
	defaultVisionTimeoutSeconds     = 30
	defaultVisionMaxOutputTokens    = 4000
	defaultOCRTimeoutSeconds        = 60
	defaultMaxAttemptsPerZone       = 5
	defaultPerAttemptTimeoutSeconds = 30
	defaultRetryBaseDelayMillis     = 250
	defaultZoneParallelMinTokens    = 20
	defaultRequestTimeoutSeconds    = 120
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CacheDir: defaultCacheDir,
			LogDir:   defaultLogDir,
		},
		Cache: Cache{
			Enabled:              true,
			TTLSeconds:           defaultCacheTTLSeconds,
			MaxEntries:           defaultCacheMaxEntries,
			SweepIntervalSeconds: defaultCacheSweepSeconds,
		},
		Resolver: Resolver{
			Threshold:        defaultResolverThreshold,
			PopularThreshold: defaultPopularThreshold,
			MaxResults:       defaultResolverMaxResults,
		},
		Oracle: Oracle{
			BaseURL:         defaultOracleBaseURL,
			RateLimitMillis: defaultOracleRateLimitMillis,
			TimeoutSeconds:  defaultOracleTimeoutSeconds,
		},
		Vision: Vision{
			Model:           defaultVisionModel,
			TimeoutSeconds:  defaultVisionTimeoutSeconds,
			MaxOutputTokens: defaultVisionMaxOutputTokens,
		},
		OCR: OCR{
			TimeoutSeconds: defaultOCRTimeoutSeconds,
		},
		Pipeline: Pipeline{
			MaxAttemptsPerZone:       defaultMaxAttemptsPerZone,
			PerAttemptTimeoutSeconds: defaultPerAttemptTimeoutSeconds,
			RetryBaseDelayMillis:     defaultRetryBaseDelayMillis,
			ZoneParallelMinTokens:    defaultZoneParallelMinTokens,
			RequestTimeoutSeconds:    defaultRequestTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
