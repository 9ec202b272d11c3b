package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"decklens/internal/carddex"
	"decklens/internal/carddex/oracle"
	"decklens/internal/logging"
	"decklens/internal/textutil"
	"decklens/internal/tiercache"
)

// Weights configures how much each similarity scorer contributes to the
// blended score. A zero weight disables the scorer. Jaro-Winkler leads
// because OCR noise is mostly transposition and tail damage; phonetic
// trails because its codes collapse too much of the name.
type Weights struct {
	Levenshtein float64
	JaroWinkler float64
	Phonetic    float64
	Trigram     float64
}

// DefaultWeights returns the tuned scorer weights.
func DefaultWeights() Weights {
	return Weights{
		Levenshtein: 0.8,
		JaroWinkler: 0.85,
		Phonetic:    0.7,
		Trigram:     0.75,
	}
}

func (w Weights) enabled() bool {
	return w.Levenshtein > 0 || w.JaroWinkler > 0 || w.Phonetic > 0 || w.Trigram > 0
}

// Cache namespaces. Exact keys the raw normalized query, normalized keys the
// canonical name, so both a repeated misspelling and the true name hit.
const (
	namespaceExact      = "card:exact"
	namespaceNormalized = "card:normalized"
)

// Candidate is one scored catalog match.
type Candidate struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Method string  `json:"method"`
}

// Resolution is the outcome of identifying a single token.
type Resolution struct {
	Input     string                `json:"input"`
	Card      carddex.CanonicalCard `json:"card"`
	Score     float64               `json:"score"`
	Method    string                `json:"method"`
	Validated bool                  `json:"validated"`
}

type cachedResolution struct {
	Card      carddex.CanonicalCard `json:"card"`
	Score     float64               `json:"score"`
	Validated bool                  `json:"validated"`
}

// Options configures a Resolver.
type Options struct {
	Catalog          *carddex.Catalog
	Oracle           oracle.Lookuper   // optional; nil disables oracle confirmation
	Cache            *tiercache.Tiered // optional; nil disables caching
	Threshold        float64
	PopularThreshold float64
	MaxResults       int
	Weights          Weights // zero value takes DefaultWeights
	Logger           *slog.Logger
}

// Resolver identifies card names against the catalog, cache, and oracle.
type Resolver struct {
	catalog          *carddex.Catalog
	oracle           oracle.Lookuper
	cache            *tiercache.Tiered
	threshold        float64
	popularThreshold float64
	maxResults       int
	weights          Weights
	logger           *slog.Logger
}

// New creates a Resolver. A nil catalog gets the curated popular catalog.
func New(opts Options) *Resolver {
	catalog := opts.Catalog
	if catalog == nil {
		catalog = carddex.NewPopularCatalog()
	}
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = 0.6
	}
	popular := opts.PopularThreshold
	if popular <= 0 {
		popular = 0.85
	}
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}
	weights := opts.Weights
	if !weights.enabled() {
		weights = DefaultWeights()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{
		catalog:          catalog,
		oracle:           opts.Oracle,
		cache:            opts.Cache,
		threshold:        threshold,
		popularThreshold: popular,
		maxResults:       maxResults,
		weights:          weights,
		logger:           logging.NewComponentLogger(logger, "resolver"),
	}
}

// WarmCache seeds both cache namespaces with every card in the catalog that
// carries oracle data, so a populated catalog survives process restarts.
func (r *Resolver) WarmCache(ctx context.Context) error {
	if r.cache == nil {
		return nil
	}
	entries := make(map[string][]byte)
	for _, name := range r.catalog.Names() {
		card, ok := r.catalog.Lookup(name)
		if !ok || card.TypeLine == "" {
			continue
		}
		data, err := json.Marshal(cachedResolution{Card: card, Score: 1, Validated: true})
		if err != nil {
			return fmt.Errorf("encode warm entry: %w", err)
		}
		for _, namespace := range []string{namespaceExact, namespaceNormalized} {
			key, err := tiercache.Key(namespace, card.NormalizedName())
			if err != nil {
				return err
			}
			entries[key] = data
		}
	}
	return r.cache.BatchSet(ctx, entries)
}

// Identify resolves a raw token to a canonical card. The boolean reports
// whether any candidate cleared the similarity threshold; infrastructure
// trouble degrades to local matching rather than failing the token.
func (r *Resolver) Identify(ctx context.Context, raw string) (Resolution, bool, error) {
	normalized := textutil.Normalize(raw)
	if normalized == "" {
		return Resolution{}, false, nil
	}
	corrected := textutil.Normalize(textutil.CorrectOCR(raw))

	if res, ok := r.fromCache(ctx, normalized, corrected); ok {
		res.Input = raw
		return res, true, nil
	}

	if card, ok := r.catalog.Lookup(normalized); ok {
		res := Resolution{Input: raw, Card: card, Score: 1, Method: "exact", Validated: true}
		r.writeback(ctx, normalized, res)
		return res, true, nil
	}
	if corrected != normalized {
		if card, ok := r.catalog.Lookup(corrected); ok {
			res := Resolution{Input: raw, Card: card, Score: 1, Method: "corrected", Validated: true}
			r.writeback(ctx, normalized, res)
			return res, true, nil
		}
	}

	best := r.bestCandidate(normalized, corrected)
	if best.Score >= r.popularThreshold {
		if card, ok := r.catalog.Lookup(best.Name); ok {
			res := Resolution{Input: raw, Card: card, Score: best.Score, Method: best.Method, Validated: true}
			r.writeback(ctx, normalized, res)
			return res, true, nil
		}
	}

	if res, ok, err := r.fromOracle(ctx, raw, corrected); err != nil {
		return Resolution{}, false, err
	} else if ok {
		r.writeback(ctx, normalized, res)
		return res, true, nil
	}

	if best.Score >= r.threshold {
		card, ok := r.catalog.Lookup(best.Name)
		if !ok {
			card = carddex.CanonicalCard{Name: best.Name}
		}
		return Resolution{Input: raw, Card: card, Score: best.Score, Method: best.Method}, true, nil
	}

	r.logger.Debug("token unresolved",
		logging.String("input", raw),
		logging.String("best_candidate", best.Name),
		logging.Float64("best_score", best.Score))
	return Resolution{Input: raw}, false, nil
}

// Candidates scores query against the whole catalog and returns the top
// matches above the threshold, best first.
func (r *Resolver) Candidates(query string, max int) []Candidate {
	normalized := textutil.Normalize(query)
	if normalized == "" {
		return nil
	}
	corrected := textutil.Normalize(textutil.CorrectOCR(query))
	if max <= 0 {
		max = r.maxResults
	}

	var candidates []Candidate
	for _, name := range r.catalog.Names() {
		target := textutil.Normalize(name)
		score, method := r.weights.scorePair(normalized, target)
		if corrected != normalized {
			if s, m := r.weights.scorePair(corrected, target); s > score {
				score, method = s, m
			}
		}
		if score < r.threshold {
			continue
		}
		candidates = append(candidates, Candidate{Name: name, Score: score, Method: method})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		// Equal scores favor the card asked about more often.
		pi, pj := r.catalog.Popularity(candidates[i].Name), r.catalog.Popularity(candidates[j].Name)
		if pi != pj {
			return pi > pj
		}
		return candidates[i].Name < candidates[j].Name
	})
	if len(candidates) > max {
		candidates = candidates[:max]
	}
	return candidates
}

func (r *Resolver) bestCandidate(normalized, corrected string) Candidate {
	var best Candidate
	for _, name := range r.catalog.Names() {
		target := textutil.Normalize(name)
		score, method := r.weights.scorePair(normalized, target)
		if corrected != normalized {
			if s, m := r.weights.scorePair(corrected, target); s > score {
				score, method = s, m
			}
		}
		if score > best.Score ||
			(score == best.Score && best.Name != "" &&
				r.catalog.Popularity(name) > r.catalog.Popularity(best.Name)) {
			best = Candidate{Name: name, Score: score, Method: method}
		}
	}
	return best
}

// minPrefixLen is the shortest query treated as a truncated name rather
// than a coincidental prefix.
const minPrefixLen = 5

// scorePair blends the enabled similarity scorers into a weighted average,
// with an exact-match short circuit. A query that is a prefix of the target
// is treated as a truncated read and scored by coverage. The method reports
// the scorer that contributed most to the blend.
func (w Weights) scorePair(query, target string) (float64, string) {
	if query == target {
		return 1, "exact"
	}
	if len(query) >= minPrefixLen && strings.HasPrefix(target, query) {
		return 0.85 + 0.1*float64(len(query))/float64(len(target)), "prefix"
	}

	var sum float64
	var count int
	var best float64
	method := "levenshtein"
	add := func(score, weight float64, name string) {
		if weight <= 0 {
			return
		}
		weighted := score * weight
		sum += weighted
		count++
		if weighted > best {
			best, method = weighted, name
		}
	}
	add(textutil.LevenshteinScore(query, target), w.Levenshtein, "levenshtein")
	add(textutil.JaroWinklerScore(query, target), w.JaroWinkler, "jaro-winkler")
	add(textutil.PhoneticScore(query, target), w.Phonetic, "phonetic")
	add(textutil.TrigramScore(query, target), w.Trigram, "trigram")
	if count == 0 {
		return 0, method
	}
	return sum / float64(count), method
}

// fromCache batch-reads every namespace key the token could hit, then takes
// the first hit in priority order: exact before normalized, the raw read
// before its corrected form.
func (r *Resolver) fromCache(ctx context.Context, normalized, corrected string) (Resolution, bool) {
	if r.cache == nil {
		return Resolution{}, false
	}
	var keys []string
	for _, query := range cacheQueries(normalized, corrected) {
		for _, namespace := range []string{namespaceExact, namespaceNormalized} {
			key, err := tiercache.Key(namespace, query)
			if err != nil {
				r.logger.Warn("cache key derivation failed", logging.Error(err))
				return Resolution{}, false
			}
			keys = append(keys, key)
		}
	}
	found, err := r.cache.BatchGet(ctx, keys)
	if err != nil {
		r.logger.Warn("cache read failed", logging.Error(err))
		return Resolution{}, false
	}
	for _, key := range keys {
		data, ok := found[key]
		if !ok {
			continue
		}
		var cached cachedResolution
		if err := json.Unmarshal(data, &cached); err != nil {
			r.logger.Warn("cache decode failed", logging.Error(err))
			continue
		}
		return Resolution{
			Card:      cached.Card,
			Score:     cached.Score,
			Method:    "cache",
			Validated: cached.Validated,
		}, true
	}
	return Resolution{}, false
}

func cacheQueries(normalized, corrected string) []string {
	if corrected == normalized {
		return []string{normalized}
	}
	return []string{normalized, corrected}
}

func (r *Resolver) fromOracle(ctx context.Context, raw, corrected string) (Resolution, bool, error) {
	if r.oracle == nil {
		return Resolution{}, false, nil
	}

	query := strings.TrimSpace(raw)
	card, err := r.oracle.NamedExact(ctx, query)
	if err != nil && errors.Is(err, oracle.ErrNotFound) {
		card, err = r.oracle.NamedFuzzy(ctx, query)
	}
	if err != nil {
		if ctx.Err() != nil {
			return Resolution{}, false, ctx.Err()
		}
		if !errors.Is(err, oracle.ErrNotFound) {
			r.logger.Warn("oracle lookup failed, falling back to local match",
				logging.String("input", raw),
				logging.Error(err))
		}
		return Resolution{}, false, nil
	}

	canonical := card.Canonical()
	r.catalog.Add(canonical)

	score, _ := r.weights.scorePair(corrected, canonical.NormalizedName())
	if score < r.threshold {
		// The oracle's own fuzzy matcher can wander far from the input.
		// Trust it only when the claimed name resembles what was read.
		r.logger.Debug("oracle match rejected as dissimilar",
			logging.String("input", raw),
			logging.String("oracle_name", canonical.Name),
			logging.Float64("score", score))
		return Resolution{}, false, nil
	}
	return Resolution{Input: raw, Card: canonical, Score: score, Method: "oracle", Validated: true}, true, nil
}

func (r *Resolver) writeback(ctx context.Context, normalized string, res Resolution) {
	if r.cache == nil || !res.Validated {
		return
	}
	cached := cachedResolution{Card: res.Card, Score: res.Score, Validated: res.Validated}
	if err := r.cache.SetJSON(ctx, namespaceExact, normalized, cached); err != nil {
		r.logger.Warn("cache write failed", logging.Error(err))
		return
	}
	if err := r.cache.SetJSON(ctx, namespaceNormalized, res.Card.NormalizedName(), cached); err != nil {
		r.logger.Warn("cache write failed", logging.Error(err))
	}
}
