// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package market defines the marketplace entities exchanged with the remote API.

These are the external-facing JSON shapes of users, products, addresses,
wishlist entries and orders. The storefront never owns their business rules;
it only mirrors them.
*/
package market

import (
	"time"

	"github.com/taibuivan/bahari/internal/platform/sec"
)

// # Domain Entities

// User is the authenticated account as returned by the profile endpoint.
type User struct {
	ID          string       `json:"id"`
	FullName    string       `json:"full_name"`
	PhoneNumber string       `json:"phone_number"`
	Role        sec.UserRole `json:"role"`
	IsVerified  bool         `json:"is_verified"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Product is a catalogue listing. Prices are whole currency units (TZS).
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Price       int64  `json:"price"`
	Unit        string `json:"unit,omitempty"`
	Stock       int    `json:"stock"`
	ImageURL    string `json:"image_url,omitempty"`
	SellerID    string `json:"seller_id,omitempty"`
}

// UnitPrice is the price charged per unit of quantity.
func (p Product) UnitPrice() int64 {
	return p.Price
}

// WishlistItem is one saved product reference.
type WishlistItem struct {
	ProductID string `json:"product_id"`
}

// Address is a delivery destination owned by the user.
type Address struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Recipient   string `json:"recipient"`
	PhoneNumber string `json:"phone_number"`
	Region      string `json:"region"`
	City        string `json:"city"`
	Street      string `json:"street"`
	IsDefault   bool   `json:"is_default"`
}

// OrderStatus is the fulfilment state reported by the backend.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderInTransit OrderStatus = "in_transit"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// OrderItem is one priced line of a placed order.
type OrderItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// Order is a placed order as returned by the backend.
type Order struct {
	ID        string      `json:"id"`
	Items     []OrderItem `json:"items"`
	Total     int64       `json:"total"`
	Status    OrderStatus `json:"status"`
	AddressID string      `json:"address_id"`
	CreatedAt time.Time   `json:"created_at"`
}

// # Request Payloads

// RegisterInput enrols a new account before OTP verification.
type RegisterInput struct {
	FullName    string       `json:"full_name"`
	PhoneNumber string       `json:"phone_number"`
	Role        sec.UserRole `json:"role"`
}

// AddressInput holds the mutable address fields.
type AddressInput struct {
	Label       string `json:"label"`
	Recipient   string `json:"recipient"`
	PhoneNumber string `json:"phone_number"`
	Region      string `json:"region"`
	City        string `json:"city"`
	Street      string `json:"street"`
	IsDefault   bool   `json:"is_default"`
}

// OrderLineInput is one requested product quantity.
type OrderLineInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// PlaceOrderInput submits the cart for checkout.
type PlaceOrderInput struct {
	AddressID string           `json:"address_id"`
	Items     []OrderLineInput `json:"items"`
}

// LoginResult is returned by a successful OTP verification.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// # Field Identifiers

// Field names used in validation details.
const (
	FieldPhoneNumber = "phone_number"
	FieldOTP         = "otp"
	FieldFullName    = "full_name"
	FieldRole        = "role"
	FieldProductID   = "product_id"
	FieldQuantity    = "quantity"
	FieldLabel       = "label"
	FieldRecipient   = "recipient"
	FieldRegion      = "region"
	FieldCity        = "city"
	FieldStreet      = "street"
	FieldAddressID   = "address_id"
	FieldItems       = "items"
)
