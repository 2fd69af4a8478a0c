// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package location

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/taibuivan/bahari/internal/platform/constants"
	"github.com/taibuivan/bahari/internal/platform/kv"
)

// Locator produces a fresh [Record]. [*Resolver] is the production implementation.
type Locator interface {
	Resolve(ctx context.Context) Record
}

// Cache serves location records from the key-value store while they are fresh.
type Cache struct {
	store   kv.Store
	locator Locator
	key     string
	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// CacheOption customises a [Cache].
type CacheOption func(*Cache)

// WithCacheClock replaces the time source used for expiry checks.
func WithCacheClock(now func() time.Time) CacheOption {
	return func(c *Cache) { c.now = now }
}

// WithTTL overrides how long a cached record is trusted.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) { c.ttl = ttl }
}

// NewCache builds a cache over store, resolving misses through locator.
func NewCache(store kv.Store, locator Locator, logger *slog.Logger, opts ...CacheOption) *Cache {
	cache := &Cache{
		store:   store,
		locator: locator,
		key:     constants.KeyLocationRecord,
		ttl:     constants.LocationCacheTTL,
		now:     time.Now,
		logger:  logger,
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

/*
Get returns the cached record when it is younger than the TTL, otherwise it
resolves a new one.

Description: Only error-free records are written back, so a fail-open
fallback is recomputed on the next call instead of being trusted for the
whole TTL. Storage failures degrade to a cache miss.

Parameters:
  - ctx: context.Context

Returns:
  - Record: Cached or freshly resolved record
*/
func (c *Cache) Get(ctx context.Context) Record {
	if record, ok := c.load(ctx); ok {
		c.logger.Debug("location_cache_hit", slog.Bool("is_local", record.IsLocal))
		return record
	}

	c.logger.Debug("location_cache_miss")
	return c.resolve(ctx)
}

// Refresh discards any cached record and resolves a new one.
func (c *Cache) Refresh(ctx context.Context) Record {
	if err := c.store.Remove(ctx, c.key); err != nil {
		c.logger.Warn("location_cache_evict_failed", slog.Any("error", err))
	}
	return c.resolve(ctx)
}

// load reads a fresh record from storage.
func (c *Cache) load(ctx context.Context) (Record, bool) {
	raw, found, err := c.store.Get(ctx, c.key)
	if err != nil {
		c.logger.Warn("location_cache_read_failed", slog.Any("error", err))
		return Record{}, false
	}
	if !found {
		return Record{}, false
	}

	var record Record
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		c.logger.Warn("location_cache_corrupt", slog.Any("error", err))
		return Record{}, false
	}

	if c.now().Sub(record.ResolvedAt()) >= c.ttl {
		return Record{}, false
	}

	return record, true
}

// resolve asks the locator and caches error-free results.
func (c *Cache) resolve(ctx context.Context) Record {
	record := c.locator.Resolve(ctx)
	if record.Failed() {
		return record
	}

	payload, err := json.Marshal(record)
	if err != nil {
		c.logger.Warn("location_cache_encode_failed", slog.Any("error", err))
		return record
	}

	if err := c.store.Set(ctx, c.key, string(payload)); err != nil {
		c.logger.Warn("location_cache_write_failed", slog.Any("error", err))
	}

	return record
}
