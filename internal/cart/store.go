// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cart

import (
	"context"
	"log/slog"
	"sync"

	"github.com/taibuivan/bahari/internal/market"
	"github.com/taibuivan/bahari/pkg/listeners"
)

// Store applies reducers one at a time, in dispatch order.
type Store struct {
	mu        sync.Mutex
	cart      Cart
	logger    *slog.Logger
	listeners listeners.Set
}

// NewStore creates an empty cart store.
func NewStore(logger *slog.Logger) *Store {
	return &Store{logger: logger}
}

// State returns the current cart.
func (s *Store) State() Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart
}

// Subscribe registers fn to run after every change.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	return s.listeners.Add(fn)
}

func (s *Store) dispatch(reduce func(Cart) Cart) Cart {
	s.mu.Lock()
	s.cart = reduce(s.cart)
	next := s.cart
	s.mu.Unlock()

	s.listeners.Notify()
	return next
}

// Add puts quantity units of product in the cart.
func (s *Store) Add(product market.Product, quantity int) Cart {
	next := s.dispatch(func(c Cart) Cart { return AddItem(c, product, quantity) })
	s.logger.Debug("cart_item_added", slog.String("product_id", product.ID), slog.Int("quantity", quantity))
	return next
}

// Remove drops productID from the cart.
func (s *Store) Remove(productID string) Cart {
	return s.dispatch(func(c Cart) Cart { return RemoveItem(c, productID) })
}

// SetQuantity replaces the quantity of productID.
func (s *Store) SetQuantity(productID string, quantity int) Cart {
	return s.dispatch(func(c Cart) Cart { return SetQuantity(c, productID, quantity) })
}

// Deduct removes the lines of a placed order.
func (s *Store) Deduct(submitted []market.OrderLineInput) Cart {
	next := s.dispatch(func(c Cart) Cart { return Deduct(c, submitted) })
	s.logger.Debug("cart_deducted", slog.Int("submitted", len(submitted)), slog.Int("remaining", len(next.Lines)))
	return next
}

// Clear empties the cart.
func (s *Store) Clear() Cart {
	return s.dispatch(func(Cart) Cart { return Clear() })
}

// Snapshot returns the persistable cart.
func (s *Store) Snapshot() Cart {
	return s.State()
}

// Restore replaces the cart with a persisted snapshot. The total is
// recomputed and duplicate lines are merged.
func (s *Store) Restore(_ context.Context, snapshot Cart) error {
	next := s.dispatch(func(Cart) Cart { return snapshot.normalise() })
	s.logger.Debug("cart_restored", slog.Int("lines", len(next.Lines)))
	return nil
}
