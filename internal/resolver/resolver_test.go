package resolver_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"decklens/internal/carddex"
	"decklens/internal/carddex/oracle"
	"decklens/internal/resolver"
	"decklens/internal/tiercache"
)

type stubOracle struct {
	cards map[string]*oracle.Card
	calls int
}

func (s *stubOracle) NamedExact(_ context.Context, name string) (*oracle.Card, error) {
	s.calls++
	if card, ok := s.cards[name]; ok {
		return card, nil
	}
	return nil, fmt.Errorf("%w: %s", oracle.ErrNotFound, name)
}

func (s *stubOracle) NamedFuzzy(ctx context.Context, name string) (*oracle.Card, error) {
	return s.NamedExact(ctx, name)
}

func TestIdentifyExactCatalogMatch(t *testing.T) {
	r := resolver.New(resolver.Options{})

	res, ok, err := r.Identify(context.Background(), "Lightning Bolt")
	if err != nil {
		t.Fatalf("Identify returned error: %v", err)
	}
	if !ok || !res.Validated {
		t.Fatalf("expected validated match, got %+v", res)
	}
	if res.Card.Name != "Lightning Bolt" || res.Score != 1 {
		t.Fatalf("unexpected resolution: %+v", res)
	}
	if res.Method != "exact" {
		t.Fatalf("unexpected method: %q", res.Method)
	}
}

func TestIdentifyMisreadPopularCard(t *testing.T) {
	r := resolver.New(resolver.Options{})

	res, ok, err := r.Identify(context.Background(), "Lighming Bolt")
	if err != nil {
		t.Fatalf("Identify returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected misread to resolve against popular catalog")
	}
	if res.Card.Name != "Lightning Bolt" {
		t.Fatalf("resolved to %q, want Lightning Bolt", res.Card.Name)
	}
	if !res.Validated {
		t.Fatalf("expected high-confidence catalog match to validate: %+v", res)
	}
}

func TestIdentifyEmptyToken(t *testing.T) {
	r := resolver.New(resolver.Options{})
	if _, ok, err := r.Identify(context.Background(), "   "); ok || err != nil {
		t.Fatalf("Identify(blank) = %v %v, want miss", ok, err)
	}
}

func TestIdentifyFallsThroughToOracle(t *testing.T) {
	stub := &stubOracle{cards: map[string]*oracle.Card{
		"Storm Crow": {ID: "sc", Name: "Storm Crow", TypeLine: "Creature — Bird", Colors: []string{"U"}},
	}}
	r := resolver.New(resolver.Options{Oracle: stub})

	res, ok, err := r.Identify(context.Background(), "Storm Crow")
	if err != nil {
		t.Fatalf("Identify returned error: %v", err)
	}
	if !ok || !res.Validated || res.Method != "oracle" {
		t.Fatalf("expected oracle confirmation, got %+v", res)
	}
	if res.Card.TypeLine != "Creature — Bird" {
		t.Fatalf("oracle data missing: %+v", res.Card)
	}

	// Confirmed card joins the catalog: second lookup stays local.
	calls := stub.calls
	res, ok, err = r.Identify(context.Background(), "Storm Crow")
	if err != nil || !ok {
		t.Fatalf("second Identify = %v %v", ok, err)
	}
	if stub.calls != calls {
		t.Fatalf("expected no further oracle calls, got %d extra", stub.calls-calls)
	}
	if res.Method != "exact" {
		t.Fatalf("expected exact catalog hit, got %q", res.Method)
	}
}

func TestIdentifyRejectsDissimilarOracleAnswer(t *testing.T) {
	stub := &stubOracle{cards: map[string]*oracle.Card{
		"Zzzyx": {ID: "z", Name: "Completely Different Card", TypeLine: "Sorcery"},
	}}
	r := resolver.New(resolver.Options{Oracle: stub})

	_, ok, err := r.Identify(context.Background(), "Zzzyx")
	if err != nil {
		t.Fatalf("Identify returned error: %v", err)
	}
	if ok {
		t.Fatal("expected dissimilar oracle answer to be rejected")
	}
}

func TestIdentifyUnresolvedGibberish(t *testing.T) {
	r := resolver.New(resolver.Options{})
	res, ok, err := r.Identify(context.Background(), "qqqq zzzz xxxx")
	if err != nil {
		t.Fatalf("Identify returned error: %v", err)
	}
	if ok {
		t.Fatalf("expected gibberish to stay unresolved, got %+v", res)
	}
}

func TestIdentifyUsesCache(t *testing.T) {
	cache := tiercache.NewTiered(tiercache.Options{
		Local: tiercache.NewMemory(100),
		TTL:   time.Hour,
	})
	t.Cleanup(func() { _ = cache.Close() })

	stub := &stubOracle{cards: map[string]*oracle.Card{
		"Storm Crow": {ID: "sc", Name: "Storm Crow", TypeLine: "Creature — Bird"},
	}}

	first := resolver.New(resolver.Options{Oracle: stub, Cache: cache})
	if _, ok, err := first.Identify(context.Background(), "Storm Crow"); !ok || err != nil {
		t.Fatalf("first Identify = %v %v", ok, err)
	}

	// Fresh resolver, fresh catalog: only the cache can answer without the
	// oracle.
	second := resolver.New(resolver.Options{Catalog: carddex.NewCatalog(), Cache: cache})
	res, ok, err := second.Identify(context.Background(), "Storm Crow")
	if err != nil {
		t.Fatalf("cached Identify returned error: %v", err)
	}
	if !ok || res.Method != "cache" || !res.Validated {
		t.Fatalf("expected cache hit, got %+v", res)
	}
	if res.Card.Name != "Storm Crow" {
		t.Fatalf("unexpected cached card: %+v", res.Card)
	}
}

func TestWarmCachePopulatesBothNamespaces(t *testing.T) {
	cache := tiercache.NewTiered(tiercache.Options{
		Local: tiercache.NewMemory(100),
		TTL:   time.Hour,
	})
	t.Cleanup(func() { _ = cache.Close() })

	catalog := carddex.NewCatalog()
	catalog.Add(carddex.CanonicalCard{Name: "Storm Crow", TypeLine: "Creature — Bird"})
	catalog.Add(carddex.CanonicalCard{Name: "Name Only Seed"})

	r := resolver.New(resolver.Options{Catalog: catalog, Cache: cache})
	if err := r.WarmCache(context.Background()); err != nil {
		t.Fatalf("WarmCache returned error: %v", err)
	}

	fresh := resolver.New(resolver.Options{Catalog: carddex.NewCatalog(), Cache: cache})
	res, ok, err := fresh.Identify(context.Background(), "Storm Crow")
	if err != nil || !ok {
		t.Fatalf("Identify after warm = %v %v", ok, err)
	}
	if res.Method != "cache" {
		t.Fatalf("expected cache hit after warm, got %q", res.Method)
	}

	// Seeds without oracle data are not warmed.
	if _, ok, _ := fresh.Identify(context.Background(), "Name Only Seed"); ok {
		t.Fatal("did not expect name-only seed in cache")
	}
}

func TestCandidatesRankedAndCapped(t *testing.T) {
	r := resolver.New(resolver.Options{MaxResults: 3})

	candidates := r.Candidates("Lightning", 3)
	if len(candidates) == 0 {
		t.Fatal("expected candidates for partial name")
	}
	if len(candidates) > 3 {
		t.Fatalf("expected at most 3 candidates, got %d", len(candidates))
	}
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Score > candidates[i-1].Score {
			t.Fatalf("candidates not sorted: %+v", candidates)
		}
	}
	if candidates[0].Name != "Lightning Bolt" {
		t.Fatalf("best candidate = %q, want Lightning Bolt", candidates[0].Name)
	}
}

func TestIdentifyTruncatedName(t *testing.T) {
	r := resolver.New(resolver.Options{})

	// Arena clips long names; the visible prefix should still resolve.
	res, ok, err := r.Identify(context.Background(), "Fable of the Mirror-Br")
	if err != nil {
		t.Fatalf("Identify: %v", err)
	}
	if !ok {
		t.Fatal("expected truncated name to resolve")
	}
	if res.Card.Name != "Fable of the Mirror-Breaker" {
		t.Fatalf("resolved to %q", res.Card.Name)
	}
	if res.Score < 0.85 {
		t.Fatalf("prefix score = %v, want >= popular threshold", res.Score)
	}
}

func TestIdentifyBlendsScorers(t *testing.T) {
	catalog := carddex.NewCatalog()
	catalog.Add(carddex.CanonicalCard{Name: "Bolt"})

	// A transposed read scores well on single scorers (same letters, same
	// phonetic code) but poorly on the blended average, so it must stay
	// unresolved at the default threshold.
	r := resolver.New(resolver.Options{Catalog: catalog})
	if res, ok, err := r.Identify(context.Background(), "blot"); ok || err != nil {
		t.Fatalf("Identify(blot) = %+v %v %v, want miss", res, ok, err)
	}
}

func TestIdentifyHonorsCustomWeights(t *testing.T) {
	catalog := carddex.NewCatalog()
	catalog.Add(carddex.CanonicalCard{Name: "Bolt"})

	r := resolver.New(resolver.Options{
		Catalog: catalog,
		Weights: resolver.Weights{Levenshtein: 1},
	})
	res, ok, err := r.Identify(context.Background(), "bolts")
	if err != nil {
		t.Fatalf("Identify returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected single-scorer match to resolve")
	}
	// One edit over five runes, sole enabled scorer at weight 1.
	if res.Score != 0.8 || res.Method != "levenshtein" {
		t.Fatalf("got score %v method %q, want 0.8 levenshtein", res.Score, res.Method)
	}
}

func TestTieBreaksByPopularity(t *testing.T) {
	catalog := carddex.NewCatalog()
	catalog.Add(carddex.CanonicalCard{Name: "Shock Alpha"})
	catalog.Add(carddex.CanonicalCard{Name: "Shock Omega"})
	for i := 0; i < 3; i++ {
		catalog.Lookup("Shock Omega")
	}

	r := resolver.New(resolver.Options{Catalog: catalog})

	// Both names score identically for the shared prefix; the card looked
	// up more often wins the tie.
	candidates := r.Candidates("Shock", 2)
	if len(candidates) != 2 || candidates[0].Score != candidates[1].Score {
		t.Fatalf("expected two tied candidates, got %+v", candidates)
	}
	if candidates[0].Name != "Shock Omega" {
		t.Fatalf("tie winner = %q, want Shock Omega", candidates[0].Name)
	}

	res, ok, err := r.Identify(context.Background(), "Shock")
	if err != nil || !ok {
		t.Fatalf("Identify = %v %v", ok, err)
	}
	if res.Card.Name != "Shock Omega" {
		t.Fatalf("resolved to %q, want the more popular Shock Omega", res.Card.Name)
	}
}
