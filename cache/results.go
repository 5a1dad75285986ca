// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cache

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// ResultsKey holds the encoded leaderboard once voting has ended
const ResultsKey = "carshow:results"

// Results caches the encoded leaderboard on top of a Store. Store
// failures are logged and read as misses, so callers fall back to a
// fresh tally.
type Results struct {
	store Store
	ttl   time.Duration
}

func NewResults(store Store, ttl time.Duration) *Results {
	return &Results{store: store, ttl: ttl}
}

// Load returns the cached payload, if there is one
func (r *Results) Load(ctx context.Context) ([]byte, bool) {
	payload, found, err := r.store.Get(ctx, ResultsKey)
	if err != nil {
		slog.Warn("results cache read failed", "error", err)
		return nil, false
	}
	return payload, found
}

func (r *Results) Save(ctx context.Context, payload []byte) {
	if err := r.store.Set(ctx, ResultsKey, payload, r.ttl); err != nil {
		slog.Warn("results cache write failed", "error", err)
	}
}

// Invalidate drops the cached payload after a vehicle or the schedule
// it was computed from changes
func (r *Results) Invalidate(ctx context.Context) {
	if err := r.store.Delete(ctx, ResultsKey); err != nil {
		slog.Warn("results cache invalidation failed", "error", err)
	}
}

// Close releases the underlying store if it holds a connection
func (r *Results) Close() error {
	if c, ok := r.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
