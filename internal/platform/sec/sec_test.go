// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bahari/internal/platform/sec"
)

/*
TestTokenService_RoundTrip verifies issued tokens verify and peek identically.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service, err := sec.NewTokenService("0123456789abcdef-secret", "test-issuer")
	require.NoError(t, err)

	token, err := service.GenerateAccessToken("user-1", "+255700000000", string(sec.RoleSeller), time.Hour)
	require.NoError(t, err)

	verified, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", verified.UserID)
	assert.Equal(t, "seller", verified.Role)

	peeked, err := sec.PeekClaims(token)
	require.NoError(t, err)
	assert.Equal(t, verified.UserID, peeked.UserID)
	assert.False(t, peeked.ExpiredAt(time.Now()))
	assert.True(t, peeked.ExpiredAt(time.Now().Add(2*time.Hour)))
}

/*
TestTokenService_RejectsForeignSecret ensures signatures are checked.
*/
func TestTokenService_RejectsForeignSecret(t *testing.T) {
	issuer, err := sec.NewTokenService("0123456789abcdef-secret", "test-issuer")
	require.NoError(t, err)
	other, err := sec.NewTokenService("fedcba9876543210-secret", "test-issuer")
	require.NoError(t, err)

	token, err := issuer.GenerateAccessToken("user-1", "+255700000000", "customer", time.Hour)
	require.NoError(t, err)

	_, err = other.VerifyToken(token)
	assert.Error(t, err)
}

/*
TestPeekClaims_Malformed rejects tokens that are not JWTs.
*/
func TestPeekClaims_Malformed(t *testing.T) {
	_, err := sec.PeekClaims("not-a-jwt")
	assert.Error(t, err)
}

/*
TestSecretHash checks bcrypt hashing of one-time codes.
*/
func TestSecretHash(t *testing.T) {
	code, err := sec.GenerateNumericCode(6)
	require.NoError(t, err)
	assert.Len(t, code, 6)

	hash, err := sec.HashSecret(code)
	require.NoError(t, err)
	assert.True(t, sec.CheckSecretHash(code, hash))
	assert.False(t, sec.CheckSecretHash("000000x", hash))
}

/*
TestUserRole_Dashboard maps roles to their landing routes.
*/
func TestUserRole_Dashboard(t *testing.T) {
	tests := []struct {
		role     sec.UserRole
		valid    bool
		expected string
	}{
		{sec.RoleCustomer, true, "/"},
		{sec.RoleSeller, true, "/seller/dashboard"},
		{sec.RoleTransporter, true, "/transporter/dashboard"},
		{sec.UserRole("admin"), false, "/"},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.role.Valid())
			assert.Equal(t, tt.expected, tt.role.Dashboard())
		})
	}
}
