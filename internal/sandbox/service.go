// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package sandbox is a local stand-in for the marketplace API.

It implements the endpoints the storefront calls (phone/OTP login,
registration, profile, catalogue, wishlist, addresses and orders) over
in-memory data so the client can be exercised end to end. Business rules are
kept to what the storefront needs to observe; it is a fixture, not a backend.

Architecture:

  - Repository: in-memory users, products, wishlists, addresses and orders.
  - OTPStore: bcrypt-hashed one-time codes in the shared key-value cache.
  - Service: use cases, token issuing via [TokenProvider].
  - Handler: chi routes and JSON envelopes.
*/
package sandbox

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/bahari/internal/market"
	"github.com/taibuivan/bahari/internal/platform/apperr"
	"github.com/taibuivan/bahari/internal/platform/constants"
	"github.com/taibuivan/bahari/internal/platform/sec"
)

// TokenProvider issues access tokens.
type TokenProvider interface {
	GenerateAccessToken(userID, phone, role string, timeToLive time.Duration) (string, error)
}

// Service implements the sandbox use cases.
type Service struct {
	repository *Repository
	otps       *OTPStore
	tokens     TokenProvider
	fixedOTP   string
	tokenTTL   time.Duration
	logger     *slog.Logger
}

// ServiceOptions configures a [Service].
type ServiceOptions struct {
	// FixedOTP, when set, is issued instead of a random code.
	FixedOTP string

	// TokenTTL overrides the lifetime of issued tokens.
	TokenTTL time.Duration
}

// NewService constructs a [Service].
func NewService(repository *Repository, otps *OTPStore, tokens TokenProvider, logger *slog.Logger, options ServiceOptions) *Service {
	ttl := options.TokenTTL
	if ttl <= 0 {
		ttl = constants.SandboxTokenTTL
	}

	return &Service{
		repository: repository,
		otps:       otps,
		tokens:     tokens,
		fixedOTP:   options.FixedOTP,
		tokenTTL:   ttl,
		logger:     logger,
	}
}

// # Authentication

// RequestLogin issues a code for an existing account.
func (s *Service) RequestLogin(ctx context.Context, phoneNumber string) error {
	if _, err := s.repository.UserByPhone(phoneNumber); err != nil {
		return apperr.NotFound("Account")
	}
	return s.issueCode(ctx, phoneNumber)
}

// Register creates an account and issues its first code.
func (s *Service) Register(ctx context.Context, input market.RegisterInput) (market.User, error) {
	user, err := s.repository.CreateUser(input)
	if err != nil {
		return market.User{}, err
	}

	s.logger.Info("account_registered", slog.String("user_id", user.ID), slog.String("role", string(user.Role)))
	return user, s.issueCode(ctx, input.PhoneNumber)
}

func (s *Service) issueCode(ctx context.Context, phoneNumber string) error {
	code := s.fixedOTP
	if code == "" {
		generated, err := sec.GenerateNumericCode(constants.OTPLength)
		if err != nil {
			return err
		}
		code = generated
	}

	if err := s.otps.Issue(ctx, phoneNumber, code); err != nil {
		return err
	}

	// There is no SMS gateway in the sandbox; the log is the delivery channel.
	s.logger.Info("otp_issued", slog.String("phone_number", phoneNumber), slog.String("code", code))
	return nil
}

// VerifyOTP consumes a code and signs the account in.
func (s *Service) VerifyOTP(ctx context.Context, phoneNumber, code string) (*market.LoginResult, error) {
	if err := s.otps.Consume(ctx, phoneNumber, code); err != nil {
		return nil, err
	}

	user, err := s.repository.UserByPhone(phoneNumber)
	if err != nil {
		return nil, ErrInvalidCode
	}

	user, err = s.repository.MarkVerified(user.ID)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.PhoneNumber, string(user.Role), s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sandbox_token_issue_failed: %w", err)
	}

	s.logger.Info("session_issued", slog.String("user_id", user.ID))
	return &market.LoginResult{Token: token, User: user}, nil
}

// Profile returns the signed-in account.
func (s *Service) Profile(userID string) (market.User, error) {
	return s.repository.UserByID(userID)
}

// # Catalogue

// Products lists the catalogue.
func (s *Service) Products(filter ProductFilter) []market.Product {
	return s.repository.Products(filter)
}

// Product returns one listing.
func (s *Service) Product(productID string) (market.Product, error) {
	return s.repository.Product(productID)
}

// CreateProduct lists a product on behalf of a seller.
func (s *Service) CreateProduct(sellerID string, product market.Product) market.Product {
	product.ID = ""
	product.SellerID = sellerID
	return s.repository.AddProduct(product)
}

// # Account Collections

// Wishlist returns the user's saved products.
func (s *Service) Wishlist(userID string) []market.WishlistItem {
	return s.repository.Wishlist(userID)
}

// AddToWishlist saves a product.
func (s *Service) AddToWishlist(userID, productID string) error {
	return s.repository.AddToWishlist(userID, productID)
}

// RemoveFromWishlist drops a product.
func (s *Service) RemoveFromWishlist(userID, productID string) {
	s.repository.RemoveFromWishlist(userID, productID)
}

// Addresses lists the user's addresses.
func (s *Service) Addresses(userID string) []market.Address {
	return s.repository.Addresses(userID)
}

// SaveAddress creates or updates an address.
func (s *Service) SaveAddress(userID, addressID string, input market.AddressInput) (market.Address, error) {
	return s.repository.SaveAddress(userID, addressID, input)
}

// DeleteAddress removes an address.
func (s *Service) DeleteAddress(userID, addressID string) error {
	return s.repository.DeleteAddress(userID, addressID)
}

// Orders lists the user's orders.
func (s *Service) Orders(userID string) []market.Order {
	return s.repository.Orders(userID)
}

// PlaceOrder records a pending order.
func (s *Service) PlaceOrder(userID string, input market.PlaceOrderInput) (market.Order, error) {
	order, err := s.repository.PlaceOrder(userID, input)
	if err != nil {
		return market.Order{}, err
	}

	s.logger.Info("order_received", slog.String("order_id", order.ID), slog.Int64("total", order.Total))
	return order, nil
}
