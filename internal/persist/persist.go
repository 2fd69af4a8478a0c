// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package persist mirrors a whitelisted set of stores into the key-value cache.

The whitelist is an explicit list of [Entry] values, usually built with
[Bind]. All entries are written together as one JSON object under a single
key, keyed by entry name:

	{"auth": {...}, "cart": {...}, "wishlist": {...}, "address": {...}}

Lifecycle:

 1. [Gateway.Rehydrate] restores every entry before the UI is handed the stores.
 2. [Gateway.Start] subscribes to every entry; each change rewrites the object.
 3. [Gateway.Purge] removes the key entirely.

Stores that are not in the whitelist are never written.
*/
package persist

import (
	"context"
	"encoding/json"
	"fmt"
)

// Entry describes one persisted store.
type Entry struct {
	// Name is the entry's key inside the snapshot object.
	Name string

	// Serialize encodes the store's current persistable state.
	Serialize func() (json.RawMessage, error)

	// Deserialize restores the store from an encoded snapshot.
	Deserialize func(ctx context.Context, raw json.RawMessage) error

	// Subscribe registers a change callback and returns its remover.
	Subscribe func(fn func()) (unsubscribe func())
}

// Source is a store whose state of type T can be persisted.
type Source[T any] interface {
	Snapshot() T
	Restore(ctx context.Context, snapshot T) error
	Subscribe(fn func()) (unsubscribe func())
}

// Bind builds an [Entry] that persists source as JSON under name.
func Bind[T any](name string, source Source[T]) Entry {
	return Entry{
		Name: name,
		Serialize: func() (json.RawMessage, error) {
			raw, err := json.Marshal(source.Snapshot())
			if err != nil {
				return nil, fmt.Errorf("persist_encode_failed(%s): %w", name, err)
			}
			return raw, nil
		},
		Deserialize: func(ctx context.Context, raw json.RawMessage) error {
			var snapshot T
			if err := json.Unmarshal(raw, &snapshot); err != nil {
				return fmt.Errorf("persist_decode_failed(%s): %w", name, err)
			}
			return source.Restore(ctx, snapshot)
		},
		Subscribe: source.Subscribe,
	}
}
