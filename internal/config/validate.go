package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateResolver(); err != nil {
		return err
	}
	if err := c.validateOracle(); err != nil {
		return err
	}
	if err := c.validateVision(); err != nil {
		return err
	}
	if err := c.validateOCR(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCache() error {
	if !c.Cache.Enabled {
		return nil
	}
	if c.Cache.TTLSeconds <= 0 {
		return errors.New("cache.ttl_seconds must be positive")
	}
	if c.Cache.MaxEntries <= 0 {
		return errors.New("cache.max_entries must be positive")
	}
	if c.Cache.SweepIntervalSeconds <= 0 {
		return errors.New("cache.sweep_interval_seconds must be positive")
	}
	return nil
}

func (c *Config) validateResolver() error {
	if c.Resolver.Threshold < 0 || c.Resolver.Threshold > 1 {
		return errors.New("resolver.threshold must be between 0 and 1")
	}
	if c.Resolver.PopularThreshold < 0 || c.Resolver.PopularThreshold > 1 {
		return errors.New("resolver.popular_threshold must be between 0 and 1")
	}
	if c.Resolver.PopularThreshold < c.Resolver.Threshold {
		return errors.New("resolver.popular_threshold must be at least resolver.threshold")
	}
	if c.Resolver.MaxResults <= 0 {
		return errors.New("resolver.max_results must be positive")
	}
	return nil
}

func (c *Config) validateOracle() error {
	if c.Oracle.BaseURL == "" {
		return errors.New("oracle.base_url must be set")
	}
	if c.Oracle.RateLimitMillis < 0 {
		return errors.New("oracle.rate_limit_millis must not be negative")
	}
	if c.Oracle.TimeoutSeconds <= 0 {
		return errors.New("oracle.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateVision() error {
	if c.Vision.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/decklens/config.toml"
		}
		return fmt.Errorf("vision.api_key is required. Set OPENAI_API_KEY env var or edit %s (create with 'decklens config init')", defaultPath)
	}
	if c.Vision.TimeoutSeconds <= 0 {
		return errors.New("vision.timeout_seconds must be positive")
	}
	if c.Vision.MaxOutputTokens <= 0 {
		return errors.New("vision.max_output_tokens must be positive")
	}
	return nil
}

func (c *Config) validateOCR() error {
	if !c.OCR.Enabled {
		return nil
	}
	if c.OCR.Command == "" {
		return errors.New("ocr.command must be set when ocr.enabled is true")
	}
	if c.OCR.TimeoutSeconds <= 0 {
		return errors.New("ocr.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.MaxAttemptsPerZone <= 0 {
		return errors.New("pipeline.max_attempts_per_zone must be positive")
	}
	if c.Pipeline.PerAttemptTimeoutSeconds <= 0 {
		return errors.New("pipeline.per_attempt_timeout_seconds must be positive")
	}
	if c.Pipeline.RetryBaseDelayMillis < 0 {
		return errors.New("pipeline.retry_base_delay_millis must not be negative")
	}
	if c.Pipeline.ZoneParallelMinTokens < 0 {
		return errors.New("pipeline.zone_parallel_min_tokens must not be negative")
	}
	if c.Pipeline.RequestTimeoutSeconds <= 0 {
		return errors.New("pipeline.request_timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
