// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package address mirrors the user's delivery addresses.

Like the wishlist, the local list only changes after the API confirms a
create, update or delete. At most one address is flagged as the default;
when the server returns a new default the previous one is unflagged locally
to match.
*/
package address

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

// API is the subset of the remote client the address store calls.
type API interface {
	Addresses(ctx context.Context) ([]market.Address, error)
	CreateAddress(ctx context.Context, input market.AddressInput) (*market.Address, error)
	UpdateAddress(ctx context.Context, addressID string, input market.AddressInput) (*market.Address, error)
	DeleteAddress(ctx context.Context, addressID string) error
}

// State is the address slice.
type State struct {
	Addresses []market.Address `json:"addresses"`

	Loading bool   `json:"-"`
	Error   string `json:"-"`
}

// Default returns the flagged default address, or the first one.
func (s State) Default() (market.Address, bool) {
	for _, address := range s.Addresses {
		if address.IsDefault {
			return address, true
		}
	}
	if len(s.Addresses) > 0 {
		return s.Addresses[0], true
	}
	return market.Address{}, false
}

// Find returns the address with the given ID.
func (s State) Find(addressID string) (market.Address, bool) {
	index := slices.IndexFunc(s.Addresses, func(a market.Address) bool { return a.ID == addressID })
	if index < 0 {
		return market.Address{}, false
	}
	return s.Addresses[index], true
}

// Store owns the address slice.
type Store struct {
	mu        sync.Mutex
	state     State
	api       API
	logger    *slog.Logger
	listeners listeners.Set

	// generation counts resets; replies begun in an older one are stale.
	generation uint64
}

// NewStore creates an empty address store.
func NewStore(api API, logger *slog.Logger) *Store {
	return &Store{api: api, logger: logger}
}

// State returns a copy of the address list.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.state
	state.Addresses = slices.Clone(s.state.Addresses)
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
		s.logger.Debug("address_reply_discarded")
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

	addresses, err := s.api.Addresses(ctx)
	if err != nil {
		s.logger.Warn("address_sync_failed", slog.Any("error", err))
		s.fail(err, "Failed to load addresses")
		return fmt.Errorf("address_sync_failed: %w", err)
	}

	s.settle(generation, func(state *State) {
		state.Loading = false
		state.Addresses = addresses
	})
	return nil
}

// Add creates an address and appends the server's copy.
func (s *Store) Add(ctx context.Context, input market.AddressInput) (*market.Address, error) {
	if err := input.Validate(); err != nil {
		s.fail(err, "Failed to save address")
		return nil, err
	}

	generation := s.begin()

	created, err := s.api.CreateAddress(ctx, input)
	if err != nil {
		s.logger.Warn("address_create_failed", slog.Any("error", err))
		s.fail(err, "Failed to save address")
		return nil, fmt.Errorf("address_create_failed: %w", err)
	}

	s.settle(generation, func(state *State) {
		state.Loading = false
		state.Addresses = upsert(state.Addresses, *created)
	})
	return created, nil
}

// Update replaces an address with the server's copy.
func (s *Store) Update(ctx context.Context, addressID string, input market.AddressInput) (*market.Address, error) {
	if err := input.Validate(); err != nil {
		s.fail(err, "Failed to update address")
		return nil, err
	}

	generation := s.begin()

	updated, err := s.api.UpdateAddress(ctx, addressID, input)
	if err != nil {
		s.logger.Warn("address_update_failed", slog.String("address_id", addressID), slog.Any("error", err))
		s.fail(err, "Failed to update address")
		return nil, fmt.Errorf("address_update_failed: %w", err)
	}

	s.settle(generation, func(state *State) {
		state.Loading = false
		state.Addresses = upsert(state.Addresses, *updated)
	})
	return updated, nil
}

// Remove deletes an address.
func (s *Store) Remove(ctx context.Context, addressID string) error {
	generation := s.begin()

	if err := s.api.DeleteAddress(ctx, addressID); err != nil {
		s.logger.Warn("address_delete_failed", slog.String("address_id", addressID), slog.Any("error", err))
		s.fail(err, "Failed to delete address")
		return fmt.Errorf("address_delete_failed: %w", err)
	}

	s.settle(generation, func(state *State) {
		state.Loading = false
		state.Addresses = slices.DeleteFunc(slices.Clone(state.Addresses), func(a market.Address) bool { return a.ID == addressID })
	})
	return nil
}

// Reset empties the mirror.
func (s *Store) Reset() {
	s.apply(func(state *State) {
		s.generation++
		*state = State{}
	})
}

// Snapshot returns the persistable address list.
func (s *Store) Snapshot() State {
	return State{Addresses: s.State().Addresses}
}

// Restore replaces the list with a persisted snapshot.
func (s *Store) Restore(_ context.Context, snapshot State) error {
	s.apply(func(state *State) {
		s.generation++
		*state = State{Addresses: slices.Clone(snapshot.Addresses)}
	})
	return nil
}

// upsert replaces or appends address, unflagging other defaults when it is the default.
func upsert(addresses []market.Address, address market.Address) []market.Address {
	next := slices.Clone(addresses)

	if address.IsDefault {
		for i := range next {
			next[i].IsDefault = false
		}
	}

	if index := slices.IndexFunc(next, func(a market.Address) bool { return a.ID == address.ID }); index >= 0 {
		next[index] = address
		return next
	}
	return append(next, address)
}
