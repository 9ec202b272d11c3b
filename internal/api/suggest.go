package api

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"decklens/internal/carddex"
	"decklens/internal/config"
	"decklens/internal/logging"
	"decklens/internal/resolver"
)

// SuggestRequest configures a card name suggestion lookup.
type SuggestRequest struct {
	Config *config.Config
	Logger *slog.Logger
	// Query is the partial or garbled name to suggest matches for.
	Query string
	// Max caps the returned suggestions; zero takes resolver.max_results.
	Max int
}

// Suggest returns ranked completions for a partial or misread card name.
// The local catalog is scored first; when it comes up short the oracle's
// autocomplete endpoint feeds additional names into the ranking. An
// unreachable oracle degrades to local-only suggestions.
func Suggest(ctx context.Context, req SuggestRequest) ([]resolver.Candidate, error) {
	cfg := req.Config
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, errors.New("a card name (or fragment) is required")
	}
	logger := req.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	max := req.Max
	if max <= 0 {
		max = cfg.Resolver.MaxResults
	}

	oracleClient, err := newOracleClient(cfg)
	if err != nil {
		return nil, err
	}

	cache := openCache(cfg, logger)
	if cache != nil {
		defer cache.Close()
	}

	catalog := carddex.NewPopularCatalog()
	names, err := oracleClient.Autocomplete(ctx, query)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("oracle autocomplete unavailable, suggesting from the local catalog only",
			logging.Error(err))
	}
	for _, name := range names {
		catalog.Add(carddex.CanonicalCard{Name: name})
	}

	identifier := newResolver(cfg, catalog, oracleClient, cache, logger)
	candidates := identifier.Candidates(query, max)

	// Short fragments score below the similarity threshold against full
	// names. Fill the remaining slots with the oracle's own completions,
	// in its order, so "Thal" still surfaces Thalia.
	if len(candidates) < max {
		seen := make(map[string]bool, len(candidates))
		for _, c := range candidates {
			seen[c.Name] = true
		}
		for _, name := range names {
			if seen[name] {
				continue
			}
			candidates = append(candidates, resolver.Candidate{Name: name, Method: "autocomplete"})
			if len(candidates) == max {
				break
			}
		}
	}
	return candidates, nil
}
