// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package kv defines the persistent key-value cache port and its adapters.

Every component that persists state (the session credential vault, the
location cache and the persistence gateway) depends only on [Store]. One
adapter is chosen at startup:

  - Memory: process-local map, used by tests and throwaway sessions.
  - SQLite: a single file on disk, the default for the storefront CLI.
  - Redis: a shared cache for multi-process deployments.

Values are opaque strings, mirroring browser local storage. Writes are
last-writer-wins; no adapter performs locking across keys.
*/
package kv

import "context"

// Store is the key-value port shared by every persisting component.
type Store interface {
	// Get returns the value stored under key.
	// found is false (with a nil error) when the key is absent.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}
