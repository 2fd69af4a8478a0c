// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sandbox_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bahari/internal/market"
	"github.com/taibuivan/bahari/internal/platform/apperr"
	"github.com/taibuivan/bahari/internal/platform/constants"
	"github.com/taibuivan/bahari/internal/platform/kv"
	"github.com/taibuivan/bahari/internal/platform/middleware"
	"github.com/taibuivan/bahari/internal/platform/sec"
	"github.com/taibuivan/bahari/internal/sandbox"
)

const testOTP = "246810"

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
	Code  string          `json:"code"`
}

type harness struct {
	t      *testing.T
	server *httptest.Server
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repository := sandbox.NewRepository()
	require.NoError(t, sandbox.Seed(repository))

	tokens, err := sec.NewTokenService("sandbox-test-secret-0123456789", constants.AuthIssuer)
	require.NoError(t, err)

	otps := sandbox.NewOTPStore(kv.NewMemory(), constants.OTPTTL, nil)
	service := sandbox.NewService(repository, otps, tokens, logger, sandbox.ServiceOptions{FixedOTP: testOTP})

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokens))
	router.Mount("/api/v1", sandbox.NewHandler(service).Routes())

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &harness{t: t, server: server}
}

func (h *harness) do(method, path, token string, body any, out any) (int, envelope) {
	h.t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(payload)
	}

	request, err := http.NewRequest(method, h.server.URL+"/api/v1"+path, reader)
	require.NoError(h.t, err)
	request.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	if token != "" {
		request.Header.Set(constants.HeaderAuthorization, constants.BearerScheme+" "+token)
	}

	response, err := http.DefaultClient.Do(request)
	require.NoError(h.t, err)
	defer response.Body.Close()

	var decoded envelope
	if response.StatusCode != http.StatusNoContent {
		require.NoError(h.t, json.NewDecoder(response.Body).Decode(&decoded))
	}
	if out != nil && len(decoded.Data) > 0 {
		require.NoError(h.t, json.Unmarshal(decoded.Data, out))
	}
	return response.StatusCode, decoded
}

func (h *harness) login(phone string) string {
	h.t.Helper()

	status, _ := h.do(http.MethodPost, "/auth/login", "", map[string]string{"phone_number": phone}, nil)
	require.Equal(h.t, http.StatusAccepted, status)

	var result market.LoginResult
	status, _ = h.do(http.MethodPost, "/auth/verify-otp", "", map[string]string{"phone_number": phone, "otp": testOTP}, &result)
	require.Equal(h.t, http.StatusOK, status)
	require.NotEmpty(h.t, result.Token)
	return result.Token
}

func (h *harness) productByName(name string) market.Product {
	h.t.Helper()

	var products []market.Product
	status, _ := h.do(http.MethodGet, "/products", "", nil, &products)
	require.Equal(h.t, http.StatusOK, status)
	for _, product := range products {
		if product.Name == name {
			return product
		}
	}
	h.t.Fatalf("product %q not seeded", name)
	return market.Product{}
}

var homeAddress = market.AddressInput{
	Label:       "Home",
	Recipient:   "Asha Mwita",
	PhoneNumber: sandbox.DemoCustomerPhone,
	Region:      "Dar es Salaam",
	City:        "Kinondoni",
	Street:      "Msasani Rd 12",
}

/*
TestRegisterAndVerify walks a new account through registration, OTP
verification and profile retrieval.
*/
func TestRegisterAndVerify(t *testing.T) {
	h := newHarness(t)

	var user market.User
	status, _ := h.do(http.MethodPost, "/auth/register", "", market.RegisterInput{FullName: "Juma Said", PhoneNumber: "+255711222333"}, &user)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, sec.RoleCustomer, user.Role)
	assert.False(t, user.IsVerified)

	var result market.LoginResult
	status, _ = h.do(http.MethodPost, "/auth/verify-otp", "", map[string]string{"phone_number": "+255711222333", "otp": testOTP}, &result)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, result.User.IsVerified)

	var profile market.User
	status, _ = h.do(http.MethodGet, "/auth/profile", result.Token, nil, &profile)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, user.ID, profile.ID)
	assert.True(t, profile.IsVerified)

	status, body := h.do(http.MethodPost, "/auth/register", "", market.RegisterInput{FullName: "Juma Said", PhoneNumber: "+255711222333"}, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, apperr.CodeConflict, body.Code)
}

/*
TestAuthFailures covers the error statuses of the authentication endpoints.
*/
func TestAuthFailures(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		status int
		code   string
	}{
		{"unknown_account", http.MethodPost, "/auth/login", "", map[string]string{"phone_number": "+255799999999"}, http.StatusNotFound, apperr.CodeNotFound},
		{"bad_phone", http.MethodPost, "/auth/login", "", map[string]string{"phone_number": "0700"}, http.StatusBadRequest, apperr.CodeValidation},
		{"no_pending_code", http.MethodPost, "/auth/verify-otp", "", map[string]string{"phone_number": sandbox.DemoSellerPhone, "otp": testOTP}, http.StatusBadRequest, apperr.CodeValidation},
		{"short_code", http.MethodPost, "/auth/verify-otp", "", map[string]string{"phone_number": sandbox.DemoSellerPhone, "otp": "12"}, http.StatusBadRequest, apperr.CodeValidation},
		{"profile_anonymous", http.MethodGet, "/auth/profile", "", nil, http.StatusUnauthorized, apperr.CodeUnauthorized},
		{"profile_bad_token", http.MethodGet, "/auth/profile", "not-a-jwt", nil, http.StatusUnauthorized, apperr.CodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := h.do(tt.method, tt.path, tt.token, tt.body, nil)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

/*
TestCodeIsSingleUse verifies a consumed code cannot be replayed.
*/
func TestCodeIsSingleUse(t *testing.T) {
	h := newHarness(t)
	h.login(sandbox.DemoCustomerPhone)

	status, body := h.do(http.MethodPost, "/auth/verify-otp", "", map[string]string{"phone_number": sandbox.DemoCustomerPhone, "otp": testOTP}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apperr.CodeValidation, body.Code)
}

/*
TestOTPStore checks expiry and mismatch handling on the code store.
*/
func TestOTPStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	store := sandbox.NewOTPStore(kv.NewMemory(), time.Minute, clock)

	require.NoError(t, store.Issue(ctx, "+255700000001", "111111"))
	err := store.Consume(ctx, "+255700000001", "222222")
	assert.ErrorIs(t, err, sandbox.ErrInvalidCode)

	require.NoError(t, store.Issue(ctx, "+255700000001", "111111"))
	now = now.Add(2 * time.Minute)
	err = store.Consume(ctx, "+255700000001", "111111")
	assert.ErrorIs(t, err, sandbox.ErrInvalidCode)

	require.NoError(t, store.Issue(ctx, "+255700000001", "333333"))
	assert.NoError(t, store.Consume(ctx, "+255700000001", "333333"))
}

/*
TestCatalogue covers listing, filtering and seller-only product creation.
*/
func TestCatalogue(t *testing.T) {
	h := newHarness(t)

	var fish []market.Product
	status, _ := h.do(http.MethodGet, "/products?category=fish", "", nil, &fish)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, fish, 2)
	for _, product := range fish {
		assert.Equal(t, "fish", product.Category)
	}

	var matches []market.Product
	h.do(http.MethodGet, "/products?category=fish,shellfish&q=PRAWN", "", nil, &matches)
	require.Len(t, matches, 1)
	assert.Equal(t, "Tiger Prawns", matches[0].Name)

	var dried []market.Product
	h.do(http.MethodGet, "/products?q=sun-dried", "", nil, &dried)
	require.Len(t, dried, 1)
	assert.Equal(t, "Dagaa", dried[0].Name)

	var one market.Product
	status, _ = h.do(http.MethodGet, "/products/"+fish[0].ID, "", nil, &one)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, fish[0], one)

	status, _ = h.do(http.MethodGet, "/products/missing", "", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)

	listing := market.Product{Name: "Sardines", Category: "fish", Price: 5000, Unit: "kg", Stock: 30}

	customer := h.login(sandbox.DemoCustomerPhone)
	status, _ = h.do(http.MethodPost, "/products", customer, listing, nil)
	assert.Equal(t, http.StatusForbidden, status)

	seller := h.login(sandbox.DemoSellerPhone)
	var created market.Product
	status, _ = h.do(http.MethodPost, "/products", seller, listing, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.SellerID)

	status, body := h.do(http.MethodPost, "/products", seller, market.Product{Name: "Free fish"}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apperr.CodeValidation, body.Code)
}

/*
TestWishlist covers saving and removing products.
*/
func TestWishlist(t *testing.T) {
	h := newHarness(t)
	token := h.login(sandbox.DemoCustomerPhone)
	prawns := h.productByName("Tiger Prawns")

	status, _ := h.do(http.MethodPost, "/wishlist", token, map[string]string{"product_id": prawns.ID}, nil)
	require.Equal(t, http.StatusNoContent, status)

	status, _ = h.do(http.MethodPost, "/wishlist", token, map[string]string{"product_id": "missing"}, nil)
	assert.Equal(t, http.StatusNotFound, status)

	var items []market.WishlistItem
	h.do(http.MethodGet, "/wishlist", token, nil, &items)
	assert.Equal(t, []market.WishlistItem{{ProductID: prawns.ID}}, items)

	status, _ = h.do(http.MethodDelete, "/wishlist/"+prawns.ID, token, nil, nil)
	require.Equal(t, http.StatusNoContent, status)

	items = nil
	h.do(http.MethodGet, "/wishlist", token, nil, &items)
	assert.Empty(t, items)

	status, _ = h.do(http.MethodGet, "/wishlist", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

/*
TestAddresses verifies the single-default rule across create, update and delete.
*/
func TestAddresses(t *testing.T) {
	h := newHarness(t)
	token := h.login(sandbox.DemoCustomerPhone)

	var home market.Address
	status, _ := h.do(http.MethodPost, "/addresses", token, homeAddress, &home)
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, home.IsDefault, "first address becomes the default")

	office := homeAddress
	office.Label = "Office"
	office.IsDefault = true
	var created market.Address
	status, _ = h.do(http.MethodPost, "/addresses", token, office, &created)
	require.Equal(t, http.StatusCreated, status)

	var list []market.Address
	h.do(http.MethodGet, "/addresses", token, nil, &list)
	require.Len(t, list, 2)
	assert.False(t, list[0].IsDefault)
	assert.True(t, list[1].IsDefault)

	renamed := homeAddress
	renamed.Street = "Haile Selassie Rd 4"
	var updated market.Address
	status, _ = h.do(http.MethodPut, "/addresses/"+home.ID, token, renamed, &updated)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Haile Selassie Rd 4", updated.Street)

	status, _ = h.do(http.MethodPut, "/addresses/missing", token, renamed, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, body := h.do(http.MethodPost, "/addresses", token, market.AddressInput{Label: "Empty"}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apperr.CodeValidation, body.Code)

	status, _ = h.do(http.MethodDelete, "/addresses/"+home.ID, token, nil, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = h.do(http.MethodDelete, "/addresses/"+home.ID, token, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

/*
TestPlaceOrder verifies pricing, line merging and stock reservation.
*/
func TestPlaceOrder(t *testing.T) {
	h := newHarness(t)
	token := h.login(sandbox.DemoCustomerPhone)
	octopus := h.productByName("Octopus")

	var address market.Address
	h.do(http.MethodPost, "/addresses", token, homeAddress, &address)

	var order market.Order
	status, _ := h.do(http.MethodPost, "/orders", token, market.PlaceOrderInput{
		AddressID: address.ID,
		Items: []market.OrderLineInput{
			{ProductID: octopus.ID, Quantity: 2},
			{ProductID: octopus.ID, Quantity: 1},
		},
	}, &order)
	require.Equal(t, http.StatusCreated, status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.Equal(t, 3*octopus.Price, order.Total)
	assert.Equal(t, market.OrderPending, order.Status)

	assert.Equal(t, octopus.Stock-3, h.productByName("Octopus").Stock)

	tests := []struct {
		name   string
		input  market.PlaceOrderInput
		status int
	}{
		{"short_stock", market.PlaceOrderInput{AddressID: address.ID, Items: []market.OrderLineInput{{ProductID: octopus.ID, Quantity: 1000}}}, http.StatusUnprocessableEntity},
		{"unknown_address", market.PlaceOrderInput{AddressID: "missing", Items: []market.OrderLineInput{{ProductID: octopus.ID, Quantity: 1}}}, http.StatusNotFound},
		{"empty_cart", market.PlaceOrderInput{AddressID: address.ID}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := h.do(http.MethodPost, "/orders", token, tt.input, nil)
			assert.Equal(t, tt.status, status)
		})
	}

	assert.Equal(t, octopus.Stock-3, h.productByName("Octopus").Stock, "failed orders reserve nothing")

	var orders []market.Order
	h.do(http.MethodGet, "/orders", token, nil, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
}
