// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/taibuivan/bahari/internal/market"
)

// # Wishlist Endpoints

type wishlistRequest struct {
	ProductID string `json:"product_id"`
}

// Wishlist returns the saved product references.
//
// GET /wishlist
func (c *Client) Wishlist(ctx context.Context) ([]market.WishlistItem, error) {
	var items []market.WishlistItem
	if err := c.do(ctx, http.MethodGet, "/wishlist", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddToWishlist saves a product reference.
//
// POST /wishlist
func (c *Client) AddToWishlist(ctx context.Context, productID string) error {
	return c.do(ctx, http.MethodPost, "/wishlist", wishlistRequest{ProductID: productID}, nil)
}

// RemoveFromWishlist drops a product reference.
//
// DELETE /wishlist/{productID}
func (c *Client) RemoveFromWishlist(ctx context.Context, productID string) error {
	return c.do(ctx, http.MethodDelete, "/wishlist/"+url.PathEscape(productID), nil, nil)
}

// # Address Endpoints

// Addresses lists the user's delivery addresses.
//
// GET /addresses
func (c *Client) Addresses(ctx context.Context) ([]market.Address, error) {
	var addresses []market.Address
	if err := c.do(ctx, http.MethodGet, "/addresses", nil, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

// CreateAddress stores a new delivery address.
//
// POST /addresses
func (c *Client) CreateAddress(ctx context.Context, input market.AddressInput) (*market.Address, error) {
	var address market.Address
	if err := c.do(ctx, http.MethodPost, "/addresses", input, &address); err != nil {
		return nil, err
	}
	return &address, nil
}

// UpdateAddress replaces the mutable fields of an address.
//
// PUT /addresses/{id}
func (c *Client) UpdateAddress(ctx context.Context, addressID string, input market.AddressInput) (*market.Address, error) {
	var address market.Address
	if err := c.do(ctx, http.MethodPut, "/addresses/"+url.PathEscape(addressID), input, &address); err != nil {
		return nil, err
	}
	return &address, nil
}

// DeleteAddress removes an address.
//
// DELETE /addresses/{id}
func (c *Client) DeleteAddress(ctx context.Context, addressID string) error {
	return c.do(ctx, http.MethodDelete, "/addresses/"+url.PathEscape(addressID), nil, nil)
}

// # Order Endpoints

// Orders lists the user's orders, newest first.
//
// GET /orders
func (c *Client) Orders(ctx context.Context) ([]market.Order, error) {
	var orders []market.Order
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// PlaceOrder submits a checkout.
//
// POST /orders
func (c *Client) PlaceOrder(ctx context.Context, input market.PlaceOrderInput) (*market.Order, error) {
	var order market.Order
	if err := c.do(ctx, http.MethodPost, "/orders", input, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
