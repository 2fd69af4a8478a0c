// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package wishlist mirrors the user's saved products.

The set is changed locally only after the API confirms the change, so the
mirror never shows an entry the server does not have.
*/
package wishlist

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/taibuivan/bahari/internal/market"
	"github.com/taibuivan/bahari/internal/platform/apperr"
	"github.com/taibuivan/bahari/pkg/listeners"
)

// API is the subset of the remote client the wishlist calls.
type API interface {
	Wishlist(ctx context.Context) ([]market.WishlistItem, error)
	AddToWishlist(ctx context.Context, productID string) error
	RemoveFromWishlist(ctx context.Context, productID string) error
}

// State is the wishlist slice. Product IDs keep insertion order.
type State struct {
	ProductIDs []string `json:"items"`

	Loading bool   `json:"-"`
	Error   string `json:"-"`
}

// Contains reports whether productID is saved.
func (s State) Contains(productID string) bool {
	return slices.Contains(s.ProductIDs, productID)
}

// Store owns the wishlist slice.
type Store struct {
	mu        sync.Mutex
	state     State
	api       API
	logger    *slog.Logger
	listeners listeners.Set

	// generation counts resets; replies begun in an older one are stale.
	generation uint64
}

// NewStore creates an empty wishlist store.
func NewStore(api API, logger *slog.Logger) *Store {
	return &Store{api: api, logger: logger}
}

// State returns a copy of the wishlist.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.state
	state.ProductIDs = slices.Clone(s.state.ProductIDs)
	return state
}

// Contains reports whether productID is saved.
func (s *Store) Contains(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Contains(productID)
}

// Subscribe registers fn to run after every change.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	return s.listeners.Add(fn)
}

func (s *Store) apply(mutate func(*State)) {
	s.mu.Lock()
	mutate(&s.state)
	s.mu.Unlock()

	s.listeners.Notify()
}

// begin marks a request in flight and returns the generation it started in.
func (s *Store) begin() uint64 {
	s.mu.Lock()
	s.state.Loading = true
	s.state.Error = ""
	generation := s.generation
	s.mu.Unlock()

	s.listeners.Notify()
	return generation
}

// settle applies a confirmed server result unless [Store.Reset] ran after
// begin; a reply that outlives its session is dropped.
func (s *Store) settle(generation uint64, mutate func(*State)) {
	s.mu.Lock()
	current := generation == s.generation
	if current {
		mutate(&s.state)
	}
	s.mu.Unlock()

	if !current {
		s.logger.Debug("wishlist_reply_discarded")
		return
	}
	s.listeners.Notify()
}

func (s *Store) fail(err error, fallback string) {
	s.apply(func(state *State) {
		state.Loading = false
		state.Error = apperr.DisplayMessage(err, fallback)
	})
}

// Sync replaces the mirror with the server's list.
func (s *Store) Sync(ctx context.Context) error {
	generation := s.begin()

	items, err := s.api.Wishlist(ctx)
	if err != nil {
		s.logger.Warn("wishlist_sync_failed", slog.Any("error", err))
		s.fail(err, "Failed to load wishlist")
		return fmt.Errorf("wishlist_sync_failed: %w", err)
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	s.settle(generation, func(state *State) {
		state.Loading = false
		state.ProductIDs = dedupe(ids)
	})
	return nil
}

// Add saves productID once the API confirms it.
func (s *Store) Add(ctx context.Context, productID string) error {
	if productID == "" {
		err := apperr.ValidationError("Validation failed", apperr.FieldError{Field: market.FieldProductID, Message: "This field is required"})
		s.fail(err, "Failed to add to wishlist")
		return err
	}

	generation := s.begin()

	if err := s.api.AddToWishlist(ctx, productID); err != nil {
		s.logger.Warn("wishlist_add_failed", slog.String("product_id", productID), slog.Any("error", err))
		s.fail(err, "Failed to add to wishlist")
		return fmt.Errorf("wishlist_add_failed: %w", err)
	}

	s.settle(generation, func(state *State) {
		state.Loading = false
		if !state.Contains(productID) {
			state.ProductIDs = append(slices.Clone(state.ProductIDs), productID)
		}
	})
	return nil
}

// Remove drops productID once the API confirms it.
func (s *Store) Remove(ctx context.Context, productID string) error {
	generation := s.begin()

	if err := s.api.RemoveFromWishlist(ctx, productID); err != nil {
		s.logger.Warn("wishlist_remove_failed", slog.String("product_id", productID), slog.Any("error", err))
		s.fail(err, "Failed to remove from wishlist")
		return fmt.Errorf("wishlist_remove_failed: %w", err)
	}

	s.settle(generation, func(state *State) {
		state.Loading = false
		state.ProductIDs = slices.DeleteFunc(slices.Clone(state.ProductIDs), func(id string) bool { return id == productID })
	})
	return nil
}

// Reset empties the mirror, e.g. when the session ends.
func (s *Store) Reset() {
	s.apply(func(state *State) {
		s.generation++
		*state = State{}
	})
}

// Snapshot returns the persistable wishlist.
func (s *Store) Snapshot() State {
	return State{ProductIDs: s.State().ProductIDs}
}

// Restore replaces the wishlist with a persisted snapshot.
func (s *Store) Restore(_ context.Context, snapshot State) error {
	s.apply(func(state *State) {
		s.generation++
		*state = State{ProductIDs: dedupe(snapshot.ProductIDs)}
	})
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
