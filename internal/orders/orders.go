// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package orders mirrors the user's order history and performs checkout.

The order list lives in memory only and always starts empty; it is never
part of the persisted snapshot.
*/
package orders

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/taibuivan/bahari/internal/cart"
	"github.com/taibuivan/bahari/internal/market"
	"github.com/taibuivan/bahari/internal/platform/apperr"
	"github.com/taibuivan/bahari/pkg/listeners"
)

// API is the subset of the remote client the order store calls.
type API interface {
	Orders(ctx context.Context) ([]market.Order, error)
	PlaceOrder(ctx context.Context, input market.PlaceOrderInput) (*market.Order, error)
}

// Cart is the cart capability checkout needs.
type Cart interface {
	State() cart.Cart
	Deduct(submitted []market.OrderLineInput) cart.Cart
}

// State is the orders slice.
type State struct {
	Orders  []market.Order
	Loading bool
	Error   string
}

// Store owns the in-memory order list.
type Store struct {
	mu        sync.Mutex
	state     State
	api       API
	cart      Cart
	logger    *slog.Logger
	listeners listeners.Set

	// generation counts resets; replies begun in an older one are stale.
	generation uint64
}

// NewStore creates an empty order store that checks out from cart.
func NewStore(api API, cart Cart, logger *slog.Logger) *Store {
	return &Store{api: api, cart: cart, logger: logger}
}

// State returns a copy of the order list.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.state
	state.Orders = slices.Clone(s.state.Orders)
	return state
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
		s.logger.Debug("orders_reply_discarded")
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

// Sync loads the order history.
func (s *Store) Sync(ctx context.Context) error {
	generation := s.begin()

	orders, err := s.api.Orders(ctx)
	if err != nil {
		s.logger.Warn("orders_sync_failed", slog.Any("error", err))
		s.fail(err, "Failed to load orders")
		return fmt.Errorf("orders_sync_failed: %w", err)
	}

	s.settle(generation, func(state *State) {
		state.Loading = false
		state.Orders = orders
	})
	return nil
}

/*
Place submits the current cart for delivery to addressID.

Description: The cart is read once at the start. On success the new order is
prepended to the list and the submitted lines are deducted from the cart, so
anything added while the request was in flight stays. On failure both are
left as they were.

Parameters:
  - ctx: context.Context
  - addressID: string

Returns:
  - *market.Order: The order as confirmed by the API
  - error: Validation or remote failure
*/
func (s *Store) Place(ctx context.Context, addressID string) (*market.Order, error) {
	input := market.PlaceOrderInput{
		AddressID: addressID,
		Items:     s.cart.State().OrderLines(),
	}

	if err := input.Validate(); err != nil {
		s.fail(err, "Failed to place order")
		return nil, err
	}

	generation := s.begin()

	order, err := s.api.PlaceOrder(ctx, input)
	if err != nil {
		s.logger.Warn("order_place_failed", slog.Any("error", err))
		s.fail(err, "Failed to place order")
		return nil, fmt.Errorf("order_place_failed: %w", err)
	}

	s.settle(generation, func(state *State) {
		state.Loading = false
		state.Orders = append([]market.Order{*order}, state.Orders...)
	})
	s.cart.Deduct(input.Items)

	s.logger.Info("order_placed", slog.String("order_id", order.ID), slog.Int64("total", order.Total))
	return order, nil
}

// Reset empties the list.
func (s *Store) Reset() {
	s.apply(func(state *State) {
		s.generation++
		*state = State{}
	})
}
