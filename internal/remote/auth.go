// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package remote

import (
	"context"
	"net/http"

	"github.com/taibuivan/bahari/internal/market"
)

// # Authentication Endpoints

type phoneRequest struct {
	PhoneNumber string `json:"phone_number"`
}

type verifyRequest struct {
	PhoneNumber string `json:"phone_number"`
	OTP         string `json:"otp"`
}

// RequestLogin asks the API to send a one-time code to phoneNumber.
//
// POST /auth/login
func (c *Client) RequestLogin(ctx context.Context, phoneNumber string) error {
	return c.do(ctx, http.MethodPost, "/auth/login", phoneRequest{PhoneNumber: phoneNumber}, nil)
}

// Register enrols a new account and sends its first one-time code.
//
// POST /auth/register
func (c *Client) Register(ctx context.Context, input market.RegisterInput) error {
	return c.do(ctx, http.MethodPost, "/auth/register", input, nil)
}

// VerifyOTP exchanges a one-time code for a bearer token.
//
// POST /auth/verify-otp
func (c *Client) VerifyOTP(ctx context.Context, phoneNumber, code string) (*market.LoginResult, error) {
	var result market.LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/verify-otp", verifyRequest{PhoneNumber: phoneNumber, OTP: code}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Profile returns the authenticated user.
//
// GET /auth/profile
func (c *Client) Profile(ctx context.Context) (*market.User, error) {
	var user market.User
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
