package tiercache_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"decklens/internal/tiercache"
)

func TestKeyIsStableAndNamespaced(t *testing.T) {
	type params struct {
		Name string `json:"name"`
	}
	first, err := tiercache.Key("card:exact", params{Name: "Lightning Bolt"})
	if err != nil {
		t.Fatalf("Key returned error: %v", err)
	}
	second, err := tiercache.Key("card:exact", params{Name: "Lightning Bolt"})
	if err != nil {
		t.Fatalf("Key returned error: %v", err)
	}
	if first != second {
		t.Fatalf("expected stable key, got %q and %q", first, second)
	}
	other, err := tiercache.Key("card:normalized", params{Name: "Lightning Bolt"})
	if err != nil {
		t.Fatalf("Key returned error: %v", err)
	}
	if first == other {
		t.Fatal("expected namespace to change the key")
	}
}

func TestMemoryTTL(t *testing.T) {
	mem := tiercache.NewMemory(10)
	ctx := context.Background()

	if err := mem.Set(ctx, "k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if _, ok, _ := mem.Get(ctx, "k"); !ok {
		t.Fatal("expected fresh entry to hit")
	}

	time.Sleep(20 * time.Millisecond)
	if _, ok, _ := mem.Get(ctx, "k"); ok {
		t.Fatal("expected expired entry to miss")
	}
}

func TestMemoryEvictsColdestBatch(t *testing.T) {
	mem := tiercache.NewMemory(20)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		key := string(rune('a' + i))
		if err := mem.Set(ctx, key, []byte("v"), time.Hour); err != nil {
			t.Fatalf("Set returned error: %v", err)
		}
		// Distinct access times so LRU order is well defined.
		time.Sleep(time.Millisecond)
	}
	// Touch everything except the two oldest.
	for i := 2; i < 20; i++ {
		mem.Get(ctx, string(rune('a'+i)))
	}

	if err := mem.Set(ctx, "fresh", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	if _, ok, _ := mem.Get(ctx, "a"); ok {
		t.Fatal("expected coldest entry evicted")
	}
	if _, ok, _ := mem.Get(ctx, "fresh"); !ok {
		t.Fatal("expected new entry present")
	}
	if mem.Evictions() < 2 {
		t.Fatalf("expected batch eviction, got %d", mem.Evictions())
	}
}

func TestSQLiteRoundTripAndSweep(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	store, err := tiercache.OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	if err := store.Set(ctx, "live", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := store.Set(ctx, "dead", []byte("v"), -time.Hour); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	if data, ok, err := store.Get(ctx, "live"); err != nil || !ok || string(data) != "v" {
		t.Fatalf("Get live = %q %v %v", data, ok, err)
	}
	if _, ok, _ := store.Get(ctx, "dead"); ok {
		t.Fatal("expected expired entry to miss")
	}

	dropped, err := store.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep returned error: %v", err)
	}
	if dropped != 1 {
		t.Fatalf("Sweep dropped %d rows, want 1", dropped)
	}

	count, err := store.Len(ctx)
	if err != nil {
		t.Fatalf("Len returned error: %v", err)
	}
	if count != 1 {
		t.Fatalf("Len = %d, want 1", count)
	}
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	store, err := tiercache.OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite returned error: %v", err)
	}
	if err := store.Set(ctx, "k", []byte("persisted"), time.Hour); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	reopened, err := tiercache.OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close() })

	data, ok, err := reopened.Get(ctx, "k")
	if err != nil || !ok || string(data) != "persisted" {
		t.Fatalf("Get after reopen = %q %v %v", data, ok, err)
	}
}

func TestTieredPromotesFromSharedTier(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	shared, err := tiercache.OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite returned error: %v", err)
	}
	ctx := context.Background()

	if err := shared.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("seed shared tier: %v", err)
	}

	cache := tiercache.NewTiered(tiercache.Options{
		Local:  tiercache.NewMemory(10),
		Shared: shared,
		TTL:    time.Hour,
	})
	t.Cleanup(func() { _ = cache.Close() })

	data, ok, err := cache.Get(ctx, "k")
	if err != nil || !ok || string(data) != "v" {
		t.Fatalf("Get = %q %v %v", data, ok, err)
	}

	// Promoted value must now come from the local tier.
	if err := shared.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, ok, _ := cache.Get(ctx, "k"); !ok {
		t.Fatal("expected promoted entry in local tier")
	}

	metrics := cache.Metrics(ctx)
	if metrics.Hits != 2 || metrics.Misses != 0 {
		t.Fatalf("unexpected metrics: %+v", metrics)
	}
	if metrics.HitRate != 1 {
		t.Fatalf("unexpected hit rate: %v", metrics.HitRate)
	}
}

func TestTieredJSONHelpers(t *testing.T) {
	cache := tiercache.NewTiered(tiercache.Options{
		Local: tiercache.NewMemory(10),
		TTL:   time.Hour,
	})
	t.Cleanup(func() { _ = cache.Close() })
	ctx := context.Background()

	type card struct {
		Name string `json:"name"`
	}
	if err := cache.SetJSON(ctx, "card:exact", "lightning bolt", card{Name: "Lightning Bolt"}); err != nil {
		t.Fatalf("SetJSON returned error: %v", err)
	}

	var got card
	ok, err := cache.GetJSON(ctx, "card:exact", "lightning bolt", &got)
	if err != nil {
		t.Fatalf("GetJSON returned error: %v", err)
	}
	if !ok || got.Name != "Lightning Bolt" {
		t.Fatalf("GetJSON = %v %+v", ok, got)
	}

	ok, err = cache.GetJSON(ctx, "card:exact", "storm crow", &got)
	if err != nil {
		t.Fatalf("GetJSON returned error: %v", err)
	}
	if ok {
		t.Fatal("expected miss for unseen params")
	}
}

func TestNilTieredIsAlwaysMiss(t *testing.T) {
	var cache *tiercache.Tiered
	ctx := context.Background()

	if err := cache.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set on nil cache returned error: %v", err)
	}
	if _, ok, err := cache.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("Get on nil cache = %v %v", ok, err)
	}
	if err := cache.Close(); err != nil {
		t.Fatalf("Close on nil cache returned error: %v", err)
	}
}

func TestTieredHitRateTracksProgrammedHits(t *testing.T) {
	cache := tiercache.NewTiered(tiercache.Options{
		Local: tiercache.NewMemory(100),
		TTL:   time.Hour,
	})
	t.Cleanup(func() { _ = cache.Close() })
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		key := fmt.Sprintf("hot-%d", i)
		if err := cache.Set(ctx, key, []byte("v")); err != nil {
			t.Fatalf("Set returned error: %v", err)
		}
		if _, ok, _ := cache.Get(ctx, key); !ok {
			t.Fatalf("expected hit for %s", key)
		}
	}
	for i := 0; i < 2; i++ {
		if _, ok, _ := cache.Get(ctx, fmt.Sprintf("cold-%d", i)); ok {
			t.Fatal("expected miss for unseen key")
		}
	}

	metrics := cache.Metrics(ctx)
	if metrics.Hits != 8 || metrics.Misses != 2 {
		t.Fatalf("unexpected metrics: %+v", metrics)
	}
	if metrics.HitRate < 0.79 || metrics.HitRate > 0.81 {
		t.Fatalf("hit rate = %v, want 0.8", metrics.HitRate)
	}
}

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("shared tier down")
}
func (brokenStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("shared tier down")
}
func (brokenStore) Delete(context.Context, string) error { return errors.New("shared tier down") }
func (brokenStore) Invalidate(context.Context, string) (int, error) {
	return 0, errors.New("shared tier down")
}
func (brokenStore) Clear(context.Context) error      { return errors.New("shared tier down") }
func (brokenStore) Len(context.Context) (int, error) { return 0, errors.New("shared tier down") }
func (brokenStore) Close() error                     { return nil }

func TestTieredSurvivesSharedTierFailure(t *testing.T) {
	cache := tiercache.NewTiered(tiercache.Options{
		Local:  tiercache.NewMemory(10),
		Shared: brokenStore{},
		TTL:    time.Hour,
	})
	t.Cleanup(func() { _ = cache.Close() })
	ctx := context.Background()

	// The local tier stays authoritative when the shared tier errors.
	if err := cache.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set surfaced shared-tier failure: %v", err)
	}
	if data, ok, err := cache.Get(ctx, "k"); err != nil || !ok || string(data) != "v" {
		t.Fatalf("Get = %q %v %v, want local hit", data, ok, err)
	}

	// A key only the shared tier could answer reads as a plain miss.
	if _, ok, err := cache.Get(ctx, "absent"); err != nil || ok {
		t.Fatalf("Get(absent) = %v %v, want clean miss", ok, err)
	}
}

func TestBatchRoundTrip(t *testing.T) {
	cache := tiercache.NewTiered(tiercache.Options{
		Local: tiercache.NewMemory(10),
		TTL:   time.Hour,
	})
	t.Cleanup(func() { _ = cache.Close() })
	ctx := context.Background()

	if err := cache.BatchSet(ctx, map[string][]byte{
		"card:exact:aa": []byte("bolt"),
		"card:exact:bb": []byte("shock"),
	}); err != nil {
		t.Fatalf("BatchSet returned error: %v", err)
	}

	found, err := cache.BatchGet(ctx, []string{"card:exact:aa", "card:exact:bb", "card:exact:missing"})
	if err != nil {
		t.Fatalf("BatchGet returned error: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("found %d keys, want 2: %v", len(found), found)
	}
	if string(found["card:exact:aa"]) != "bolt" {
		t.Fatalf("unexpected value: %q", found["card:exact:aa"])
	}
}

func TestInvalidateByPattern(t *testing.T) {
	shared, err := tiercache.OpenSQLite(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("OpenSQLite returned error: %v", err)
	}
	cache := tiercache.NewTiered(tiercache.Options{
		Local:  tiercache.NewMemory(10),
		Shared: shared,
		TTL:    time.Hour,
	})
	t.Cleanup(func() { _ = cache.Close() })
	ctx := context.Background()

	for _, key := range []string{"card:exact:aa", "card:exact:bb", "card:normalized:cc"} {
		if err := cache.Set(ctx, key, []byte("v")); err != nil {
			t.Fatalf("Set(%s) returned error: %v", key, err)
		}
	}

	dropped, err := cache.Invalidate(ctx, "card:exact:*")
	if err != nil {
		t.Fatalf("Invalidate returned error: %v", err)
	}
	if dropped != 2 {
		t.Fatalf("Invalidate dropped %d, want 2", dropped)
	}
	if _, ok, _ := cache.Get(ctx, "card:exact:aa"); ok {
		t.Fatal("invalidated key still present")
	}
	if _, ok, _ := cache.Get(ctx, "card:normalized:cc"); !ok {
		t.Fatal("key outside the pattern was dropped")
	}

	// The shared tier must not resurrect invalidated keys.
	if _, ok, err := shared.Get(ctx, "card:exact:bb"); err != nil || ok {
		t.Fatalf("shared Get after invalidate = %v %v, want miss", ok, err)
	}
}

func TestMetricsReportsSizeAndHotKeys(t *testing.T) {
	cache := tiercache.NewTiered(tiercache.Options{
		Local: tiercache.NewMemory(10),
		TTL:   time.Hour,
	})
	t.Cleanup(func() { _ = cache.Close() })
	ctx := context.Background()

	if err := cache.Set(ctx, "hot", []byte("value")); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, ok, err := cache.Get(ctx, "hot"); err != nil || !ok {
			t.Fatalf("Get = %v %v", ok, err)
		}
	}

	m := cache.Metrics(ctx)
	if m.ApproxMemoryBytes <= 0 {
		t.Fatalf("ApproxMemoryBytes = %d, want > 0", m.ApproxMemoryBytes)
	}
	if m.AvgAccessLatency < 0 {
		t.Fatalf("AvgAccessLatency = %v, want >= 0", m.AvgAccessLatency)
	}
	if len(m.TopEntries) == 0 || m.TopEntries[0].Key != "hot" || m.TopEntries[0].Hits != 3 {
		t.Fatalf("unexpected top entries: %+v", m.TopEntries)
	}
}
