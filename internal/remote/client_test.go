// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package remote_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bahari/internal/market"
	"github.com/taibuivan/bahari/internal/platform/apperr"
	"github.com/taibuivan/bahari/internal/platform/ctxutil"
	"github.com/taibuivan/bahari/internal/remote"
)

// # Fakes

type fakeCredentials struct {
	mu      sync.Mutex
	token   string
	readErr error
	evicted int
}

func (f *fakeCredentials) Token(context.Context) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return "", false, f.readErr
	}
	return f.token, f.token != "", nil
}

func (f *fakeCredentials) Evict(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
	f.evicted++
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func newClient(t *testing.T, handler http.Handler, credentials *fakeCredentials, redirects *atomic.Int32) *remote.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := remote.New(remote.Options{
		BaseURL:     server.URL + "/api/v1",
		Credentials: credentials,
		Redirector: remote.RedirectFunc(func(context.Context) {
			redirects.Add(1)
		}),
	})
	require.NoError(t, err)
	return client
}

// # Tests

/*
TestNew_Validation rejects unusable configurations.
*/
func TestNew_Validation(t *testing.T) {
	redirect := remote.RedirectFunc(func(context.Context) {})

	_, err := remote.New(remote.Options{BaseURL: "not a url", Credentials: &fakeCredentials{}, Redirector: redirect})
	assert.Error(t, err)

	_, err = remote.New(remote.Options{BaseURL: "http://localhost:8080"})
	assert.Error(t, err)
}

/*
TestClient_AttachesHeaders verifies the request stage of the interceptor chain.
*/
func TestClient_AttachesHeaders(t *testing.T) {
	var seen http.Header
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/products", func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Clone()
		writeJSON(w, http.StatusOK, map[string]any{"data": []market.Product{{ID: "p1", Name: "Tilapia", Price: 12000}}})
	})

	var redirects atomic.Int32
	credentials := &fakeCredentials{token: "abc.def.ghi"}
	client := newClient(t, mux, credentials, &redirects)

	ctx := ctxutil.WithRequestID(context.Background(), "req-123")
	products, err := client.Products(ctx, "")

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Tilapia", products[0].Name)
	assert.Equal(t, "Bearer abc.def.ghi", seen.Get("Authorization"))
	assert.Equal(t, "req-123", seen.Get("X-Request-ID"))
}

/*
TestClient_AnonymousRequest sends no Authorization header without a token.
*/
func TestClient_AnonymousRequest(t *testing.T) {
	tests := []struct {
		name        string
		credentials *fakeCredentials
	}{
		{"no_token", &fakeCredentials{}},
		{"unreadable_store", &fakeCredentials{readErr: errors.New("disk gone")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen http.Header
			mux := http.NewServeMux()
			mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
				seen = r.Header.Clone()
				w.WriteHeader(http.StatusNoContent)
			})

			var redirects atomic.Int32
			client := newClient(t, mux, tt.credentials, &redirects)

			require.NoError(t, client.RequestLogin(context.Background(), "+255712345678"))
			assert.Empty(t, seen.Get("Authorization"))
			assert.NotEmpty(t, seen.Get("X-Request-ID"))
		})
	}
}

/*
TestClient_UnauthorizedEvictsAndRedirects checks that a 401 from any endpoint
removes the credential and triggers exactly one redirect.
*/
func TestClient_UnauthorizedEvictsAndRedirects(t *testing.T) {
	unauthorized := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Token expired", "code": apperr.CodeUnauthorized})
	})

	calls := []struct {
		name string
		call func(context.Context, *remote.Client) error
	}{
		{"profile", func(ctx context.Context, c *remote.Client) error { _, err := c.Profile(ctx); return err }},
		{"wishlist", func(ctx context.Context, c *remote.Client) error { _, err := c.Wishlist(ctx); return err }},
		{"add_to_wishlist", func(ctx context.Context, c *remote.Client) error { return c.AddToWishlist(ctx, "p1") }},
		{"addresses", func(ctx context.Context, c *remote.Client) error { _, err := c.Addresses(ctx); return err }},
		{"delete_address", func(ctx context.Context, c *remote.Client) error { return c.DeleteAddress(ctx, "a1") }},
		{"orders", func(ctx context.Context, c *remote.Client) error { _, err := c.Orders(ctx); return err }},
		{"place_order", func(ctx context.Context, c *remote.Client) error {
			_, err := c.PlaceOrder(ctx, market.PlaceOrderInput{AddressID: "a1"})
			return err
		}},
	}

	for _, tt := range calls {
		t.Run(tt.name, func(t *testing.T) {
			var redirects atomic.Int32
			credentials := &fakeCredentials{token: "stale"}
			client := newClient(t, unauthorized, credentials, &redirects)

			err := tt.call(context.Background(), client)

			require.Error(t, err)
			assert.True(t, apperr.HasStatus(err, http.StatusUnauthorized))
			assert.Equal(t, "Token expired", apperr.As(err).Message)
			assert.Equal(t, 1, credentials.evicted)
			assert.Equal(t, int32(1), redirects.Load())

			_, ok, _ := credentials.Token(context.Background())
			assert.False(t, ok)
		})
	}
}

/*
TestClient_ErrorEnvelope maps non-401 failures without touching the session.
*/
func TestClient_ErrorEnvelope(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/verify-otp", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "Validation failed",
			"code":    apperr.CodeValidation,
			"details": []apperr.FieldError{{Field: "otp", Message: "Must be 6 digits"}},
		})
	})
	mux.HandleFunc("GET /api/v1/products/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream down</html>"))
	})

	var redirects atomic.Int32
	credentials := &fakeCredentials{token: "valid"}
	client := newClient(t, mux, credentials, &redirects)

	_, err := client.VerifyOTP(context.Background(), "+255712345678", "12")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeValidation, apperr.As(err).Code)
	assert.Equal(t, "otp: Must be 6 digits", apperr.DisplayMessage(err, "fallback"))

	_, err = client.Product(context.Background(), "p1")
	require.Error(t, err)
	assert.True(t, apperr.HasStatus(err, http.StatusBadGateway))
	assert.Equal(t, apperr.CodeUnexpected, apperr.As(err).Code)

	assert.Zero(t, credentials.evicted)
	assert.Zero(t, redirects.Load())
}

/*
TestClient_VerifyOTP decodes the login envelope.
*/
func TestClient_VerifyOTP(t *testing.T) {
	var body map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/verify-otp", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, http.StatusOK, map[string]any{"data": market.LoginResult{
			Token: "jwt",
			User:  market.User{ID: "u1", PhoneNumber: "+255712345678", Role: "seller"},
		}})
	})

	var redirects atomic.Int32
	client := newClient(t, mux, &fakeCredentials{}, &redirects)

	result, err := client.VerifyOTP(context.Background(), "+255712345678", "123456")

	require.NoError(t, err)
	assert.Equal(t, "jwt", result.Token)
	assert.Equal(t, "u1", result.User.ID)
	assert.Equal(t, "+255712345678", body["phone_number"])
	assert.Equal(t, "123456", body["otp"])
}

/*
TestClient_NetworkFailure reports unreachable servers as network errors.
*/
func TestClient_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client, err := remote.New(remote.Options{
		BaseURL:     baseURL,
		Credentials: &fakeCredentials{},
		Redirector:  remote.RedirectFunc(func(context.Context) {}),
	})
	require.NoError(t, err)

	_, err = client.Orders(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNetwork, apperr.As(err).Code)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.Orders(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
