package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"decklens/internal/carddex"
	"decklens/internal/carddex/oracle"
	"decklens/internal/config"
	"decklens/internal/logging"
	"decklens/internal/recognize"
	"decklens/internal/resolver"
	"decklens/internal/services"
	"decklens/internal/tiercache"
)

// openCache assembles the tier stack from configuration. A nil return means
// caching is disabled; an unreachable shared tier degrades to local-only.
func openCache(cfg *config.Config, logger *slog.Logger) *tiercache.Tiered {
	if !cfg.Cache.Enabled {
		return nil
	}
	var shared tiercache.Store
	if path := strings.TrimSpace(cfg.Cache.SharedPath); path != "" {
		store, err := tiercache.OpenSQLite(path)
		if err != nil {
			logger.Warn("shared cache tier unavailable, continuing with the local tier",
				logging.Error(services.Wrap(services.ErrCacheUnavailable, "cache", "open", path, err)))
		} else {
			shared = store
		}
	}
	return tiercache.NewTiered(tiercache.Options{
		Local:         tiercache.NewMemory(cfg.Cache.MaxEntries),
		Shared:        shared,
		TTL:           cfg.CacheTTL(),
		SweepInterval: time.Duration(cfg.Cache.SweepIntervalSeconds) * time.Second,
		Logger:        logger,
	})
}

func newOracleClient(cfg *config.Config) (*oracle.Client, error) {
	client, err := oracle.New(cfg.Oracle.BaseURL,
		oracle.WithRateLimit(cfg.OracleRateLimit()),
		oracle.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Oracle.TimeoutSeconds) * time.Second}),
	)
	if err != nil {
		return nil, fmt.Errorf("create oracle client: %w", err)
	}
	return client, nil
}

func newResolver(cfg *config.Config, catalog *carddex.Catalog, lookuper oracle.Lookuper, cache *tiercache.Tiered, logger *slog.Logger) *resolver.Resolver {
	return resolver.New(resolver.Options{
		Catalog:          catalog,
		Oracle:           lookuper,
		Cache:            cache,
		Threshold:        cfg.Resolver.Threshold,
		PopularThreshold: cfg.Resolver.PopularThreshold,
		MaxResults:       cfg.Resolver.MaxResults,
		Logger:           logger,
	})
}

// newRecognizer builds the vision engine, chained with the local OCR
// subprocess when one is configured.
func newRecognizer(cfg *config.Config, logger *slog.Logger) (recognize.Recognizer, error) {
	vision, err := recognize.NewVision(recognize.VisionOptions{
		APIKey:          cfg.Vision.APIKey,
		BaseURL:         cfg.Vision.BaseURL,
		Model:           cfg.Vision.Model,
		MaxOutputTokens: cfg.Vision.MaxOutputTokens,
		Timeout:         time.Duration(cfg.Vision.TimeoutSeconds) * time.Second,
		Logger:          logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create vision recognizer: %w", err)
	}
	if !cfg.OCR.Enabled {
		return vision, nil
	}
	ocr, err := recognize.NewOCR(recognize.OCROptions{
		Command: cfg.OCR.Command,
		Args:    cfg.OCR.Args,
		Timeout: time.Duration(cfg.OCR.TimeoutSeconds) * time.Second,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create ocr recognizer: %w", err)
	}
	return recognize.NewFallback(vision, ocr), nil
}
