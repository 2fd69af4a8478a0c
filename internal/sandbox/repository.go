// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sandbox

import (
	"slices"
	"sync"
	"time"

	"github.com/taibuivan/bahari/internal/market"
	"github.com/taibuivan/bahari/internal/platform/apperr"
	"github.com/taibuivan/bahari/pkg/ident"
	"github.com/taibuivan/bahari/pkg/slug"
)

// Repository holds every sandbox record in memory. It is safe for
// concurrent use; each method is atomic.
type Repository struct {
	mu sync.RWMutex

	users       map[string]market.User
	userByPhone map[string]string
	products    []market.Product
	wishlists   map[string][]string
	addresses   map[string][]market.Address
	orders      map[string][]market.Order
	newID       func(ident.Kind) string
	now         func() time.Time
}

// NewRepository creates an empty repository.
func NewRepository() *Repository {
	return &Repository{
		users:       make(map[string]market.User),
		userByPhone: make(map[string]string),
		wishlists:   make(map[string][]string),
		addresses:   make(map[string][]market.Address),
		orders:      make(map[string][]market.Order),
		newID:       ident.New,
		now:         time.Now,
	}
}

// # Users

// CreateUser stores a new, unverified account.
func (r *Repository) CreateUser(input market.RegisterInput) (market.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.userByPhone[input.PhoneNumber]; exists {
		return market.User{}, apperr.Conflict("Phone number is already registered")
	}

	user := market.User{
		ID:          r.newID(ident.User),
		FullName:    input.FullName,
		PhoneNumber: input.PhoneNumber,
		Role:        input.Role,
		CreatedAt:   r.now().UTC(),
	}
	r.users[user.ID] = user
	r.userByPhone[user.PhoneNumber] = user.ID
	return user, nil
}

// UserByPhone looks an account up by phone number.
func (r *Repository) UserByPhone(phoneNumber string) (market.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.userByPhone[phoneNumber]
	if !ok {
		return market.User{}, apperr.NotFound("Account")
	}
	return r.users[id], nil
}

// UserByID looks an account up by ID.
func (r *Repository) UserByID(userID string) (market.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return market.User{}, apperr.NotFound("Account")
	}
	return user, nil
}

// MarkVerified flags the account as having completed OTP verification.
func (r *Repository) MarkVerified(userID string) (market.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return market.User{}, apperr.NotFound("Account")
	}
	user.IsVerified = true
	r.users[userID] = user
	return user, nil
}

// # Catalogue

// ProductFilter narrows a catalogue listing. Zero values match everything.
type ProductFilter struct {
	Categories []string
	Search     string
}

// Products lists matching products in listing order.
func (r *Repository) Products(filter ProductFilter) []market.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]market.Product, 0, len(r.products))
	for _, product := range r.products {
		if len(filter.Categories) > 0 && !slices.Contains(filter.Categories, product.Category) {
			continue
		}
		if !slug.Matches(product.Name, filter.Search) && !slug.Matches(product.Description, filter.Search) {
			continue
		}
		products = append(products, product)
	}
	return products
}

// Product returns one listing.
func (r *Repository) Product(productID string) (market.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index := r.productIndex(productID)
	if index < 0 {
		return market.Product{}, apperr.NotFound("Product")
	}
	return r.products[index], nil
}

// AddProduct lists a new product and assigns its ID.
func (r *Repository) AddProduct(product market.Product) market.Product {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = r.newID(ident.Product)
	}
	r.products = append(r.products, product)
	return product
}

func (r *Repository) productIndex(productID string) int {
	return slices.IndexFunc(r.products, func(p market.Product) bool { return p.ID == productID })
}

// # Wishlist

// Wishlist returns the user's saved product IDs.
func (r *Repository) Wishlist(userID string) []market.WishlistItem {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.wishlists[userID]
	items := make([]market.WishlistItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, market.WishlistItem{ProductID: id})
	}
	return items
}

// AddToWishlist saves a listed product. Saving twice is a no-op.
func (r *Repository) AddToWishlist(userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.productIndex(productID) < 0 {
		return apperr.NotFound("Product")
	}
	if !slices.Contains(r.wishlists[userID], productID) {
		r.wishlists[userID] = append(r.wishlists[userID], productID)
	}
	return nil
}

// RemoveFromWishlist drops a saved product. Removing an absent one is a no-op.
func (r *Repository) RemoveFromWishlist(userID, productID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.wishlists[userID] = slices.DeleteFunc(r.wishlists[userID], func(id string) bool { return id == productID })
}

// # Addresses

// Addresses lists the user's addresses.
func (r *Repository) Addresses(userID string) []market.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.addresses[userID])
}

// SaveAddress creates (empty addressID) or replaces an address. The first
// address and any address flagged default become the only default.
func (r *Repository) SaveAddress(userID, addressID string, input market.AddressInput) (market.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.addresses[userID]
	index := -1
	if addressID != "" {
		index = slices.IndexFunc(list, func(a market.Address) bool { return a.ID == addressID })
		if index < 0 {
			return market.Address{}, apperr.NotFound("Address")
		}
	}

	address := market.Address{
		ID:          addressID,
		Label:       input.Label,
		Recipient:   input.Recipient,
		PhoneNumber: input.PhoneNumber,
		Region:      input.Region,
		City:        input.City,
		Street:      input.Street,
		IsDefault:   input.IsDefault || len(list) == 0 || (index >= 0 && len(list) == 1),
	}

	if address.IsDefault {
		for i := range list {
			list[i].IsDefault = false
		}
	}

	if index < 0 {
		address.ID = r.newID(ident.Address)
		list = append(list, address)
	} else {
		list[index] = address
	}

	r.addresses[userID] = list
	return address, nil
}

// DeleteAddress removes an address.
func (r *Repository) DeleteAddress(userID, addressID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.addresses[userID]
	index := slices.IndexFunc(list, func(a market.Address) bool { return a.ID == addressID })
	if index < 0 {
		return apperr.NotFound("Address")
	}

	r.addresses[userID] = slices.Delete(list, index, index+1)
	return nil
}

// # Orders

// Orders lists the user's orders, newest first.
func (r *Repository) Orders(userID string) []market.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.orders[userID])
}

/*
PlaceOrder prices the requested lines and reserves stock atomically.

Description: Duplicate product lines are merged. Either every line fits in
stock and all stock is decremented, or nothing changes.

Parameters:
  - userID: string
  - input: market.PlaceOrderInput (already validated)

Returns:
  - market.Order: The pending order
  - error: NotFound for unknown products or addresses, Unprocessable for short stock
*/
func (r *Repository) PlaceOrder(userID string, input market.PlaceOrderInput) (market.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !slices.ContainsFunc(r.addresses[userID], func(a market.Address) bool { return a.ID == input.AddressID }) {
		return market.Order{}, apperr.NotFound("Address")
	}

	// 1. Merge duplicate lines, keeping first-seen order
	var lines []market.OrderLineInput
	for _, line := range input.Items {
		if i := slices.IndexFunc(lines, func(l market.OrderLineInput) bool { return l.ProductID == line.ProductID }); i >= 0 {
			lines[i].Quantity += line.Quantity
			continue
		}
		lines = append(lines, line)
	}

	// 2. Check every line before touching stock
	order := market.Order{
		ID:        r.newID(ident.Order),
		Status:    market.OrderPending,
		AddressID: input.AddressID,
		CreatedAt: r.now().UTC(),
	}
	indexes := make([]int, len(lines))
	for i, line := range lines {
		index := r.productIndex(line.ProductID)
		if index < 0 {
			return market.Order{}, apperr.NotFound("Product")
		}
		product := r.products[index]
		if product.Stock < line.Quantity {
			return market.Order{}, apperr.Unprocessable("Not enough stock for " + product.Name)
		}

		indexes[i] = index
		order.Items = append(order.Items, market.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  line.Quantity,
			UnitPrice: product.UnitPrice(),
		})
		order.Total += product.UnitPrice() * int64(line.Quantity)
	}

	// 3. Reserve stock
	for i, index := range indexes {
		r.products[index].Stock -= lines[i].Quantity
	}

	r.orders[userID] = append([]market.Order{order}, r.orders[userID]...)
	return order, nil
}
