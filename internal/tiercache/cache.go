package tiercache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Entry is one cached value with its access bookkeeping.
type Entry struct {
	Data         []byte    `json:"data"`
	StoredAt     time.Time `json:"stored_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	Hits         int64     `json:"hits"`
	LastAccessed time.Time `json:"last_accessed"`
}

func (e Entry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Metrics summarizes cache effectiveness over the life of the process.
type Metrics struct {
	Hits              int64         `json:"hits"`
	Misses            int64         `json:"misses"`
	Evictions         int64         `json:"evictions"`
	Entries           int           `json:"entries"`
	HitRate           float64       `json:"hit_rate"`
	ApproxMemoryBytes int64         `json:"approx_memory_bytes"`
	AvgAccessLatency  time.Duration `json:"avg_access_latency"`
	TopEntries        []KeyHits     `json:"top_entries,omitempty"`
}

// KeyHits pairs a cache key with its access count, for hot-key reporting.
type KeyHits struct {
	Key  string `json:"key"`
	Hits int64  `json:"hits"`
}

// Store is a single cache tier.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Invalidate drops every key matching a glob pattern and reports how
	// many were removed. Keys carry their namespace as a visible prefix,
	// so "card:exact:*" clears one namespace.
	Invalidate(ctx context.Context, pattern string) (int, error)
	Clear(ctx context.Context) error
	Len(ctx context.Context) (int, error)
	Close() error
}

// Key derives a stable cache key from a namespace and arbitrary lookup
// parameters. Params are JSON-encoded and hashed so the key stays short.
func Key(namespace string, params any) (string, error) {
	encoded, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("encode cache params: %w", err)
	}
	sum := sha256.Sum256(encoded)
	return namespace + ":" + hex.EncodeToString(sum[:])[:16], nil
}
