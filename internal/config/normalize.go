package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeCache(); err != nil {
		return err
	}
	c.normalizeOracle()
	c.normalizeVision()
	c.normalizeOCR()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCache() error {
	if strings.TrimSpace(c.Cache.SharedPath) == "" {
		c.Cache.SharedPath = filepath.Join(c.Paths.CacheDir, "lookup.db")
	}
	var err error
	if c.Cache.SharedPath, err = expandPath(c.Cache.SharedPath); err != nil {
		return fmt.Errorf("cache.shared_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeOracle() {
	c.Oracle.BaseURL = strings.TrimRight(strings.TrimSpace(c.Oracle.BaseURL), "/")
	if c.Oracle.BaseURL == "" {
		c.Oracle.BaseURL = defaultOracleBaseURL
	}
}

func (c *Config) normalizeVision() {
	c.Vision.APIKey = strings.TrimSpace(c.Vision.APIKey)
	if c.Vision.APIKey == "" {
		c.Vision.APIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}
	c.Vision.BaseURL = strings.TrimRight(strings.TrimSpace(c.Vision.BaseURL), "/")
	if strings.TrimSpace(c.Vision.Model) == "" {
		c.Vision.Model = defaultVisionModel
	}
}

func (c *Config) normalizeOCR() {
	c.OCR.Command = strings.TrimSpace(c.OCR.Command)
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
}
