// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/bahari/internal/platform/constants"
	"github.com/taibuivan/bahari/internal/platform/ctxutil"
	"github.com/taibuivan/bahari/internal/platform/middleware"
	"github.com/taibuivan/bahari/internal/platform/sec"
)

var ok = http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
	writer.WriteHeader(http.StatusOK)
})

func serve(handler http.Handler, request *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestRequestID verifies that a caller's ID is echoed and a missing one is minted.
*/
func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.RequestID(request.Context())
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(constants.HeaderXRequestID, "req-123")
	response := serve(handler, request)
	assert.Equal(t, "req-123", seen)
	assert.Equal(t, "req-123", response.Header().Get(constants.HeaderXRequestID))

	response = serve(handler, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, response.Header().Get(constants.HeaderXRequestID))
}

/*
TestRateLimit verifies the per-IP burst is enforced independently per client.
*/
func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.RateLimit(ctx, 0.001, 2)(ok)

	request := func(ip string) int {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(constants.HeaderXRealIP, ip)
		return serve(handler, r).Code
	}

	assert.Equal(t, http.StatusOK, request("10.0.0.1"))
	assert.Equal(t, http.StatusOK, request("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, request("10.0.0.1"))
	assert.Equal(t, http.StatusOK, request("10.0.0.2"))
}

/*
TestPanicRecovery verifies a panicking handler produces a 500 envelope.
*/
func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	response := serve(handler, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, response.Code)
	assert.Contains(t, response.Body.String(), "INTERNAL_ERROR")
}

type corsConfig struct {
	development bool
	suffix      string
}

func (c corsConfig) IsDevelopment() bool  { return c.development }
func (c corsConfig) OriginSuffix() string { return c.suffix }

/*
TestCORS checks origin acceptance per environment.
*/
func TestCORS(t *testing.T) {
	tests := []struct {
		name    string
		config  corsConfig
		origin  string
		allowed bool
	}{
		{"development_any", corsConfig{development: true}, "http://localhost:3000", true},
		{"production_suffix", corsConfig{suffix: "bahari.co.tz"}, "https://shop.bahari.co.tz", true},
		{"production_foreign", corsConfig{suffix: "bahari.co.tz"}, "https://evil.example", false},
		{"production_no_suffix", corsConfig{}, "https://shop.bahari.co.tz", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodOptions, "/", nil)
			request.Header.Set(constants.HeaderOrigin, tt.origin)

			response := serve(middleware.CORS(tt.config)(ok), request)
			assert.Equal(t, http.StatusNoContent, response.Code)

			if tt.allowed {
				assert.Equal(t, tt.origin, response.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, response.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

type fakeVerifier map[string]*sec.AuthClaims

func (f fakeVerifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	if claims, found := f[token]; found {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

/*
TestAuthorization covers Authenticate combined with RequireAuth and RequireRole.
*/
func TestAuthorization(t *testing.T) {
	verifier := fakeVerifier{
		"customer-token": {UserID: "u1", Role: string(sec.RoleCustomer)},
		"seller-token":   {UserID: "u2", Role: string(sec.RoleSeller)},
	}

	authed := middleware.Authenticate(verifier)(middleware.RequireAuth(ok))
	sellers := middleware.Authenticate(verifier)(middleware.RequireRole(sec.RoleSeller)(ok))

	tests := []struct {
		name    string
		handler http.Handler
		header  string
		status  int
	}{
		{"anonymous_blocked", authed, "", http.StatusUnauthorized},
		{"bad_scheme", authed, "Basic abc", http.StatusUnauthorized},
		{"unknown_token", authed, "Bearer nope", http.StatusUnauthorized},
		{"customer_allowed", authed, "Bearer customer-token", http.StatusOK},
		{"lowercase_scheme", authed, "bearer customer-token", http.StatusOK},
		{"customer_not_seller", sellers, "Bearer customer-token", http.StatusForbidden},
		{"seller_allowed", sellers, "Bearer seller-token", http.StatusOK},
		{"anonymous_not_seller", sellers, "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				request.Header.Set(constants.HeaderAuthorization, tt.header)
			}
			assert.Equal(t, tt.status, serve(tt.handler, request).Code)
		})
	}
}
