package tiercache

import (
	"context"
	"fmt"
	"path"
	"sort"
	"sync"
	"time"
)

// Memory is the in-process cache tier. When the entry count exceeds the
// configured maximum, the least recently used tenth of the entries is
// evicted in one batch.
type Memory struct {
	mu         sync.Mutex
	entries    map[string]Entry
	maxEntries int
	evictions  int64
}

// NewMemory creates an in-process tier holding at most maxEntries values.
func NewMemory(maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	return &Memory{
		entries:    make(map[string]Entry),
		maxEntries: maxEntries,
	}
}

var _ Store = (*Memory)(nil)

// Get returns the value stored under key if present and unexpired.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	now := time.Now()
	if entry.expired(now) {
		delete(m.entries, key)
		return nil, false, nil
	}
	entry.Hits++
	entry.LastAccessed = now
	m.entries[key] = entry
	return entry.Data, true, nil
}

// Set stores data under key, evicting the coldest entries when full.
func (m *Memory) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	now := time.Now()
	entry := Entry{
		Data:         data,
		StoredAt:     now,
		LastAccessed: now,
	}
	if ttl > 0 {
		entry.ExpiresAt = now.Add(ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.maxEntries {
		m.evictLocked()
	}
	m.entries[key] = entry
	return nil
}

// evictLocked drops the least recently used 10% of entries, at least one.
func (m *Memory) evictLocked() {
	type aged struct {
		key  string
		last time.Time
	}
	candidates := make([]aged, 0, len(m.entries))
	for key, entry := range m.entries {
		candidates = append(candidates, aged{key: key, last: entry.LastAccessed})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].last.Before(candidates[j].last)
	})

	batch := len(m.entries) / 10
	if batch < 1 {
		batch = 1
	}
	for i := 0; i < batch && i < len(candidates); i++ {
		delete(m.entries, candidates[i].key)
		m.evictions++
	}
}

// Delete removes the entry stored under key, if any.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// Invalidate removes every entry whose key matches the glob pattern.
func (m *Memory) Invalidate(_ context.Context, pattern string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var dropped int
	for key := range m.entries {
		ok, err := path.Match(pattern, key)
		if err != nil {
			return dropped, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if ok {
			delete(m.entries, key)
			dropped++
		}
	}
	return dropped, nil
}

// Clear removes every entry.
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]Entry)
	return nil
}

// Len returns the current entry count.
func (m *Memory) Len(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries), nil
}

// Close is a no-op for the in-process tier.
func (m *Memory) Close() error { return nil }

// Sweep removes expired entries and returns how many were dropped.
func (m *Memory) Sweep() int {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	var dropped int
	for key, entry := range m.entries {
		if entry.expired(now) {
			delete(m.entries, key)
			dropped++
		}
	}
	return dropped
}

// memoryEntryOverhead approximates the bookkeeping cost of one entry
// beyond its key and payload bytes.
const memoryEntryOverhead = 96

// ApproxMemoryBytes estimates the tier's resident size.
func (m *Memory) ApproxMemoryBytes() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	var total int64
	for key, entry := range m.entries {
		total += int64(len(key)) + int64(len(entry.Data)) + memoryEntryOverhead
	}
	return total
}

// Evictions returns the total number of LRU evictions so far.
func (m *Memory) Evictions() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.evictions
}

// Top returns the n most frequently accessed keys, hottest first.
func (m *Memory) Top(n int) []KeyHits {
	m.mu.Lock()
	defer m.mu.Unlock()

	hot := make([]KeyHits, 0, len(m.entries))
	for key, entry := range m.entries {
		hot = append(hot, KeyHits{Key: key, Hits: entry.Hits})
	}
	sort.Slice(hot, func(i, j int) bool {
		if hot[i].Hits != hot[j].Hits {
			return hot[i].Hits > hot[j].Hits
		}
		return hot[i].Key < hot[j].Key
	})
	if n < len(hot) {
		hot = hot[:n]
	}
	return hot
}
