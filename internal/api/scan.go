package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"decklens/internal/carddex"
	"decklens/internal/completion"
	"decklens/internal/config"
	"decklens/internal/logging"
	"decklens/internal/pipeline"
	"decklens/internal/reconcile"
	"decklens/internal/services"
)

// ScanDeckRequest carries everything a full deck read needs.
type ScanDeckRequest struct {
	Config        *config.Config
	MainImagePath string
	SideImagePath string // optional; the sideboard is filled when absent
	FormatHint    string // "mtgo", "arena", "paper", or empty
	RequestID     string
	Logger        *slog.Logger
}

// ScanDeck runs the full pipeline over the supplied screenshots and returns
// the completed deck. Errors here are configuration failures only; an
// unreadable image or failed recognition ends in the fallback deck inside
// the result.
func ScanDeck(ctx context.Context, req ScanDeckRequest) (*pipeline.Result, error) {
	cfg := req.Config
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}
	if strings.TrimSpace(req.MainImagePath) == "" {
		return nil, errors.New("mainboard image path is required")
	}
	logger := req.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	main, err := readImage(req.MainImagePath)
	if err != nil {
		// An unreadable mainboard is the catastrophic case. The caller
		// still gets a legal deck, with the failure recorded.
		logger.Warn("mainboard image unreadable, returning the fallback deck", logging.Error(err))
		result := pipeline.FallbackResult(req.RequestID,
			[]string{services.Wrap(services.ErrCatastrophic, "api", "scan", "mainboard image unreadable", err).Error()})
		return &result, nil
	}
	var side pipeline.ZoneInput
	if strings.TrimSpace(req.SideImagePath) != "" {
		side, err = readImage(req.SideImagePath)
		if err != nil {
			logger.Warn("sideboard image unreadable, filling the sideboard instead", logging.Error(err))
			side = pipeline.ZoneInput{}
		}
	}

	cache := openCache(cfg, logger)
	if cache != nil {
		defer cache.Close()
	}
	oracleClient, err := newOracleClient(cfg)
	if err != nil {
		return nil, err
	}
	recognizer, err := newRecognizer(cfg, logger)
	if err != nil {
		return nil, err
	}

	identifier := newResolver(cfg, carddex.NewPopularCatalog(), oracleClient, cache, logger)
	p := pipeline.New(
		recognizer,
		reconcile.New(identifier, logger),
		completion.New(logger),
		pipeline.Settings{
			Retry: pipeline.RetryPolicy{
				MaxAttempts:       cfg.Pipeline.MaxAttemptsPerZone,
				BaseDelay:         time.Duration(cfg.Pipeline.RetryBaseDelayMillis) * time.Millisecond,
				PerAttemptTimeout: cfg.PerAttemptTimeout(),
			},
			ZoneParallelMinTokens: cfg.Pipeline.ZoneParallelMinTokens,
			RequestTimeout:        cfg.RequestTimeout(),
		},
		logger,
	)

	expected := carddex.ZoneMain.Target()
	if len(side.Image) > 0 {
		expected += carddex.ZoneSide.Target()
	}
	result := p.Process(ctx, pipeline.Request{
		ID:             req.RequestID,
		Main:           main,
		Side:           side,
		FormatHint:     strings.ToLower(strings.TrimSpace(req.FormatHint)),
		ExpectedTokens: expected,
	})
	return &result, nil
}

func readImage(path string) (pipeline.ZoneInput, error) {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return pipeline.ZoneInput{}, err
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return pipeline.ZoneInput{}, fmt.Errorf("read image %q: %w", path, err)
	}
	if len(data) == 0 {
		return pipeline.ZoneInput{}, fmt.Errorf("image %q is empty", path)
	}
	return pipeline.ZoneInput{Image: data, MIME: mimeForPath(expanded)}, nil
}

func mimeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "image/png"
	}
}
