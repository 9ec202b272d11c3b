package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/gofrs/flock"

	"decklens/internal/carddex"
	"decklens/internal/config"
	"decklens/internal/logging"
	"decklens/internal/tiercache"
)

// CacheStats reports the lookup cache metrics for the configured tiers.
func CacheStats(ctx context.Context, cfg *config.Config) (tiercache.Metrics, error) {
	if cfg == nil {
		return tiercache.Metrics{}, errors.New("configuration is required")
	}
	cache := openCache(cfg, logging.NewNop())
	if cache == nil {
		return tiercache.Metrics{}, errors.New("cache is disabled in configuration")
	}
	defer cache.Close()
	return cache.Metrics(ctx), nil
}

// ClearCache drops every entry from both tiers.
func ClearCache(ctx context.Context, cfg *config.Config) error {
	if cfg == nil {
		return errors.New("configuration is required")
	}
	cache := openCache(cfg, logging.NewNop())
	if cache == nil {
		return errors.New("cache is disabled in configuration")
	}
	defer cache.Close()
	return cache.Clear(ctx)
}

// InvalidateCache drops every entry whose key matches the glob pattern and
// reports how many were removed from the local tier.
func InvalidateCache(ctx context.Context, cfg *config.Config, pattern string) (int, error) {
	if cfg == nil {
		return 0, errors.New("configuration is required")
	}
	if pattern == "" {
		return 0, errors.New("a key pattern is required")
	}
	cache := openCache(cfg, logging.NewNop())
	if cache == nil {
		return 0, errors.New("cache is disabled in configuration")
	}
	defer cache.Close()
	return cache.Invalidate(ctx, pattern)
}

// PopulateCacheRequest configures a cache warm-up run.
type PopulateCacheRequest struct {
	Config *config.Config
	Logger *slog.Logger
	// Limit caps how many popular cards are fetched; zero means all.
	Limit int
}

// PopulateCacheResult summarizes a warm-up run.
type PopulateCacheResult struct {
	Requested int
	Fetched   int
}

// PopulateCache fetches the popular-card list from the oracle and seeds the
// lookup cache with the confirmed identities. A file lock keeps concurrent
// runs from hammering the oracle.
func PopulateCache(ctx context.Context, req PopulateCacheRequest) (*PopulateCacheResult, error) {
	cfg := req.Config
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}
	logger := req.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	lock := flock.New(filepath.Join(cfg.Paths.CacheDir, "populate.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire populate lock: %w", err)
	}
	if !ok {
		return nil, errors.New("another cache populate run is already in progress")
	}
	defer func() { _ = lock.Unlock() }()

	cache := openCache(cfg, logger)
	if cache == nil {
		return nil, errors.New("cache is disabled in configuration")
	}
	defer cache.Close()

	oracleClient, err := newOracleClient(cfg)
	if err != nil {
		return nil, err
	}

	catalog := carddex.NewPopularCatalog()
	names := catalog.Names()
	if req.Limit > 0 && req.Limit < len(names) {
		names = names[:req.Limit]
	}

	cards, err := oracleClient.Collection(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("fetch popular cards: %w", err)
	}
	for _, card := range cards {
		catalog.Add(card.Canonical())
	}
	if len(cards) < len(names) {
		logger.Warn("oracle skipped unknown popular cards",
			logging.Int("requested", len(names)),
			logging.Int("fetched", len(cards)))
	}

	identifier := newResolver(cfg, catalog, oracleClient, cache, logger)
	if err := identifier.WarmCache(ctx); err != nil {
		return nil, fmt.Errorf("seed lookup cache: %w", err)
	}
	logger.Info("lookup cache populated",
		logging.Int("requested", len(names)),
		logging.Int("fetched", len(cards)))
	return &PopulateCacheResult{Requested: len(names), Fetched: len(cards)}, nil
}
