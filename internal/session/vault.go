// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"fmt"

	"github.com/taibuivan/bahari/internal/platform/constants"
	"github.com/taibuivan/bahari/internal/platform/kv"
)

// Vault keeps the bearer token under its own key in the key-value cache.
//
// It is the only credential the remote client reads, and it implements
// [remote.CredentialProvider].
type Vault struct {
	store kv.Store
	key   string
}

// NewVault builds a vault over store.
func NewVault(store kv.Store) *Vault {
	return &Vault{store: store, key: constants.KeyAuthToken}
}

// Token returns the persisted token. ok is false when none is held.
func (v *Vault) Token(ctx context.Context) (string, bool, error) {
	token, found, err := v.store.Get(ctx, v.key)
	if err != nil {
		return "", false, fmt.Errorf("token_read_failed: %w", err)
	}
	return token, found && token != "", nil
}

// Save persists token.
func (v *Vault) Save(ctx context.Context, token string) error {
	if err := v.store.Set(ctx, v.key, token); err != nil {
		return fmt.Errorf("token_write_failed: %w", err)
	}
	return nil
}

// Evict removes the persisted token.
func (v *Vault) Evict(ctx context.Context) error {
	if err := v.store.Remove(ctx, v.key); err != nil {
		return fmt.Errorf("token_evict_failed: %w", err)
	}
	return nil
}
