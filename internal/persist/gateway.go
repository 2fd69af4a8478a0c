// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/taibuivan/bahari/internal/platform/constants"
	"github.com/taibuivan/bahari/internal/platform/kv"
)

// Gateway owns the snapshot key and the subscriptions that keep it current.
type Gateway struct {
	store   kv.Store
	key     string
	entries []Entry
	logger  *slog.Logger

	// writeMu serialises snapshot writes.
	writeMu       sync.Mutex
	mu            sync.Mutex
	unsubscribers []func()
}

// NewGateway creates a gateway for the given whitelist.
func NewGateway(store kv.Store, logger *slog.Logger, entries ...Entry) *Gateway {
	return &Gateway{
		store:   store,
		key:     constants.KeyPersistRoot,
		entries: entries,
		logger:  logger,
	}
}

/*
Rehydrate restores every whitelisted store from the persisted snapshot.

Description: A missing key leaves every store at its default. A snapshot
that is not a JSON object is ignored as a whole; an entry that fails to
decode is skipped and its store keeps its default. Neither case is an error.

Parameters:
  - ctx: context.Context

Returns:
  - error: Only when the key-value cache itself cannot be read
*/
func (g *Gateway) Rehydrate(ctx context.Context) error {
	value, found, err := g.store.Get(ctx, g.key)
	if err != nil {
		return fmt.Errorf("persist_read_failed: %w", err)
	}
	if !found {
		g.logger.Debug("persist_snapshot_absent")
		return nil
	}

	var root map[string]json.RawMessage
	if err := json.Unmarshal([]byte(value), &root); err != nil {
		g.logger.Warn("persist_snapshot_corrupt", slog.Any("error", err))
		return nil
	}

	restored := 0
	for _, entry := range g.entries {
		raw, ok := root[entry.Name]
		if !ok || len(raw) == 0 || string(raw) == "null" {
			continue
		}

		if err := entry.Deserialize(ctx, raw); err != nil {
			g.logger.Warn("persist_entry_skipped", slog.String("entry", entry.Name), slog.Any("error", err))
			continue
		}
		restored++
	}

	g.logger.Debug("persist_rehydrated", slog.Int("entries", restored))
	return nil
}

// Start subscribes to every entry. Each change writes the full snapshot.
// Calling Start twice is a no-op.
func (g *Gateway) Start(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.unsubscribers != nil {
		return
	}

	for _, entry := range g.entries {
		name := entry.Name
		g.unsubscribers = append(g.unsubscribers, entry.Subscribe(func() {
			if err := g.Flush(ctx); err != nil {
				g.logger.Error("persist_write_failed", slog.String("entry", name), slog.Any("error", err))
			}
		}))
	}
}

// Stop removes every subscription installed by [Gateway.Start].
func (g *Gateway) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, unsubscribe := range g.unsubscribers {
		unsubscribe()
	}
	g.unsubscribers = nil
}

// Flush writes the current state of every entry.
func (g *Gateway) Flush(ctx context.Context) error {
	g.writeMu.Lock()
	defer g.writeMu.Unlock()

	root := make(map[string]json.RawMessage, len(g.entries))
	for _, entry := range g.entries {
		raw, err := entry.Serialize()
		if err != nil {
			return err
		}
		root[entry.Name] = raw
	}

	payload, err := json.Marshal(root)
	if err != nil {
		return fmt.Errorf("persist_encode_failed: %w", err)
	}

	if err := g.store.Set(ctx, g.key, string(payload)); err != nil {
		return fmt.Errorf("persist_write_failed: %w", err)
	}
	return nil
}

// Purge removes the persisted snapshot.
func (g *Gateway) Purge(ctx context.Context) error {
	g.writeMu.Lock()
	defer g.writeMu.Unlock()

	if err := g.store.Remove(ctx, g.key); err != nil {
		return fmt.Errorf("persist_purge_failed: %w", err)
	}
	return nil
}
