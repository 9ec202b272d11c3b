package tiercache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"decklens/internal/logging"
)

// Options configures a Tiered cache.
type Options struct {
	Local         *Memory
	Shared        Store // optional second tier
	TTL           time.Duration
	SweepInterval time.Duration
	Logger        *slog.Logger
}

// Tiered combines the in-process tier with the shared tier. A nil *Tiered is
// valid and behaves as a cache that never hits, so callers need no separate
// disabled path.
type Tiered struct {
	local  *Memory
	shared Store
	ttl    time.Duration
	logger *slog.Logger

	mu          sync.Mutex
	hits        int64
	misses      int64
	accessNanos int64

	stopSweep func()
	sweepDone chan struct{}
}

// NewTiered assembles the tier stack and starts the background sweeper when
// an interval is configured. Callers must Close the cache to stop it.
func NewTiered(opts Options) *Tiered {
	local := opts.Local
	if local == nil {
		local = NewMemory(0)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "tiercache")

	t := &Tiered{
		local:  local,
		shared: opts.Shared,
		ttl:    opts.TTL,
		logger: logger,
	}
	if opts.SweepInterval > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		t.stopSweep = cancel
		t.sweepDone = make(chan struct{})
		go t.sweepLoop(ctx, opts.SweepInterval)
	}
	return t
}

func (t *Tiered) sweepLoop(ctx context.Context, interval time.Duration) {
	defer close(t.sweepDone)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			dropped := t.local.Sweep()
			if t.shared != nil {
				if sweeper, ok := t.shared.(*SQLite); ok {
					shared, err := sweeper.Sweep(ctx)
					if err != nil {
						t.logger.Warn("shared cache sweep failed", logging.Error(err))
						continue
					}
					dropped += int(shared)
				}
			}
			if dropped > 0 {
				t.logger.Debug("swept expired cache entries", logging.Int("dropped", dropped))
			}
		}
	}
}

// Get reads key from the local tier first, falling through to the shared
// tier and promoting on hit.
func (t *Tiered) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if t == nil {
		return nil, false, nil
	}
	start := time.Now()
	defer t.recordLatency(start)

	if data, ok, err := t.local.Get(ctx, key); err != nil {
		return nil, false, err
	} else if ok {
		t.record(true)
		return data, true, nil
	}

	if t.shared != nil {
		data, ok, err := t.shared.Get(ctx, key)
		if err != nil {
			// A broken shared tier reads as a miss. The local tier stays
			// authoritative.
			t.logger.Warn("shared cache read failed", logging.Error(err))
		} else if ok {
			if err := t.local.Set(ctx, key, data, t.ttl); err != nil {
				return nil, false, err
			}
			t.record(true)
			return data, true, nil
		}
	}

	t.record(false)
	return nil, false, nil
}

// Set writes data to both tiers.
func (t *Tiered) Set(ctx context.Context, key string, data []byte) error {
	if t == nil {
		return nil
	}
	if err := t.local.Set(ctx, key, data, t.ttl); err != nil {
		return err
	}
	if t.shared != nil {
		if err := t.shared.Set(ctx, key, data, t.ttl); err != nil {
			t.logger.Warn("shared cache write failed", logging.Error(err))
		}
	}
	return nil
}

// BatchGet reads many keys in one call, returning only the keys that hit.
func (t *Tiered) BatchGet(ctx context.Context, keys []string) (map[string][]byte, error) {
	if t == nil {
		return nil, nil
	}
	found := make(map[string][]byte, len(keys))
	for _, key := range keys {
		data, ok, err := t.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if ok {
			found[key] = data
		}
	}
	return found, nil
}

// BatchSet writes many entries in one call.
func (t *Tiered) BatchSet(ctx context.Context, entries map[string][]byte) error {
	if t == nil {
		return nil
	}
	for key, data := range entries {
		if err := t.Set(ctx, key, data); err != nil {
			return err
		}
	}
	return nil
}

// Invalidate drops every key matching the glob pattern from both tiers.
// The count is the larger of the two tiers since they hold the same keys.
// Shared-tier failures degrade to local-only invalidation, like writes.
func (t *Tiered) Invalidate(ctx context.Context, pattern string) (int, error) {
	if t == nil {
		return 0, nil
	}
	dropped, err := t.local.Invalidate(ctx, pattern)
	if err != nil {
		return dropped, err
	}
	if t.shared != nil {
		shared, err := t.shared.Invalidate(ctx, pattern)
		if err != nil {
			t.logger.Warn("shared cache invalidate failed", logging.Error(err))
		} else if shared > dropped {
			dropped = shared
		}
	}
	return dropped, nil
}

// GetJSON looks up the value stored for namespace+params and decodes it
// into out.
func (t *Tiered) GetJSON(ctx context.Context, namespace string, params, out any) (bool, error) {
	if t == nil {
		return false, nil
	}
	key, err := Key(namespace, params)
	if err != nil {
		return false, err
	}
	data, ok, err := t.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode cache value: %w", err)
	}
	return true, nil
}

// SetJSON stores value under the key derived from namespace+params.
func (t *Tiered) SetJSON(ctx context.Context, namespace string, params, value any) error {
	if t == nil {
		return nil
	}
	key, err := Key(namespace, params)
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache value: %w", err)
	}
	return t.Set(ctx, key, data)
}

// Clear empties both tiers.
func (t *Tiered) Clear(ctx context.Context) error {
	if t == nil {
		return nil
	}
	if err := t.local.Clear(ctx); err != nil {
		return err
	}
	if t.shared != nil {
		return t.shared.Clear(ctx)
	}
	return nil
}

// Metrics reports process-lifetime hit accounting plus current entry counts.
func (t *Tiered) Metrics(ctx context.Context) Metrics {
	if t == nil {
		return Metrics{}
	}
	t.mu.Lock()
	m := Metrics{Hits: t.hits, Misses: t.misses}
	accessNanos := t.accessNanos
	t.mu.Unlock()

	m.Evictions = t.local.Evictions()
	m.ApproxMemoryBytes = t.local.ApproxMemoryBytes()
	m.TopEntries = t.local.Top(topEntryCount)
	if count, err := t.local.Len(ctx); err == nil {
		m.Entries = count
	}
	if t.shared != nil {
		if count, err := t.shared.Len(ctx); err == nil && count > m.Entries {
			m.Entries = count
		}
	}
	if total := m.Hits + m.Misses; total > 0 {
		m.HitRate = float64(m.Hits) / float64(total)
		m.AvgAccessLatency = time.Duration(accessNanos / total)
	}
	return m
}

// Top returns the hottest keys in the local tier.
func (t *Tiered) Top(n int) []KeyHits {
	if t == nil {
		return nil
	}
	return t.local.Top(n)
}

// topEntryCount caps the hot-key list in Metrics.
const topEntryCount = 5

func (t *Tiered) record(hit bool) {
	t.mu.Lock()
	if hit {
		t.hits++
	} else {
		t.misses++
	}
	t.mu.Unlock()
}

func (t *Tiered) recordLatency(start time.Time) {
	elapsed := time.Since(start).Nanoseconds()
	t.mu.Lock()
	t.accessNanos += elapsed
	t.mu.Unlock()
}

// Close stops the sweeper and closes the shared tier.
func (t *Tiered) Close() error {
	if t == nil {
		return nil
	}
	if t.stopSweep != nil {
		t.stopSweep()
		<-t.sweepDone
		t.stopSweep = nil
	}
	if t.shared != nil {
		return t.shared.Close()
	}
	return nil
}
