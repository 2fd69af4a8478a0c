// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sandbox

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/bahari/internal/market"
	"github.com/taibuivan/bahari/internal/platform/middleware"
	requestutil "github.com/taibuivan/bahari/internal/platform/request"
	"github.com/taibuivan/bahari/internal/platform/respond"
	"github.com/taibuivan/bahari/internal/platform/sec"
	"github.com/taibuivan/bahari/internal/platform/validate"
	"github.com/taibuivan/bahari/pkg/query"
)

// Handler implements the sandbox HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the API routes, to be mounted under /api/v1.
//
// # Endpoints
//   - POST   /auth/login, /auth/register, /auth/verify-otp
//   - GET    /auth/profile                       (auth)
//   - GET    /products?category=&q=, /products/{id}
//   - POST   /products                           (seller)
//   - GET    /wishlist, POST /wishlist, DELETE /wishlist/{productID}   (auth)
//   - GET    /addresses, POST /addresses, PUT|DELETE /addresses/{id}   (auth)
//   - GET    /orders, POST /orders               (auth)
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Route("/auth", func(r chi.Router) {
		r.Post("/login", handler.requestLogin)
		r.Post("/register", handler.register)
		r.Post("/verify-otp", handler.verifyOTP)
		r.With(middleware.RequireAuth).Get("/profile", handler.profile)
	})

	router.Route("/products", func(r chi.Router) {
		r.Get("/", handler.listProducts)
		r.Get("/{productID}", handler.getProduct)
		r.With(middleware.RequireRole(sec.RoleSeller)).Post("/", handler.createProduct)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/wishlist", handler.listWishlist)
		r.Post("/wishlist", handler.addToWishlist)
		r.Delete("/wishlist/{productID}", handler.removeFromWishlist)

		r.Get("/addresses", handler.listAddresses)
		r.Post("/addresses", handler.createAddress)
		r.Put("/addresses/{addressID}", handler.updateAddress)
		r.Delete("/addresses/{addressID}", handler.deleteAddress)

		r.Get("/orders", handler.listOrders)
		r.Post("/orders", handler.placeOrder)
	})

	return router
}

// # Request Payloads

type phoneRequest struct {
	PhoneNumber string `json:"phone_number"`
}

type verifyRequest struct {
	PhoneNumber string `json:"phone_number"`
	OTP         string `json:"otp"`
}

type wishlistRequest struct {
	ProductID string `json:"product_id"`
}

// # Authentication

/*
POST /api/v1/auth/login

Response:
  - 202: {"phone_number": ...}: Code issued
  - 400: Validation failure
  - 404: No account for the phone number
*/
func (handler *Handler) requestLogin(writer http.ResponseWriter, request *http.Request) {
	var input phoneRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input.PhoneNumber = strings.TrimSpace(input.PhoneNumber)
	if err := market.ValidatePhone(input.PhoneNumber); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.RequestLogin(request.Context(), input.PhoneNumber); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Accepted(writer, input)
}

/*
POST /api/v1/auth/register

Response:
  - 201: User: Unverified account, code issued
  - 400: Validation failure
  - 409: Phone number already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input market.RegisterInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.Role == "" {
		input.Role = sec.RoleCustomer
	}
	if err := input.Validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Register(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
POST /api/v1/auth/verify-otp

Response:
  - 200: LoginResult: Token and user
  - 400: Validation failure
  - 401: Wrong, expired or missing code
*/
func (handler *Handler) verifyOTP(writer http.ResponseWriter, request *http.Request) {
	var input verifyRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := market.ValidateOTP(input.PhoneNumber, input.OTP); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.VerifyOTP(request.Context(), input.PhoneNumber, input.OTP)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

// GET /api/v1/auth/profile
func (handler *Handler) profile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Profile(userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// # Catalogue

// GET /api/v1/products?category=fish,shellfish&q=prawn
func (handler *Handler) listProducts(writer http.ResponseWriter, request *http.Request) {
	params := request.URL.Query()
	respond.OK(writer, handler.service.Products(ProductFilter{
		Categories: query.StringSlice(params.Get("category")),
		Search:     params.Get("q"),
	}))
}

// GET /api/v1/products/{productID}
func (handler *Handler) getProduct(writer http.ResponseWriter, request *http.Request) {
	product, err := handler.service.Product(requestutil.Param(request, "productID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, product)
}

// POST /api/v1/products (sellers only)
func (handler *Handler) createProduct(writer http.ResponseWriter, request *http.Request) {
	sellerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input market.Product
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required("name", input.Name).
		MaxLen("name", input.Name, 120).
		Custom("price", input.Price <= 0, "Must be greater than 0").
		Custom("stock", input.Stock < 0, "Must not be negative")
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, handler.service.CreateProduct(sellerID, input))
}

// # Wishlist

// GET /api/v1/wishlist
func (handler *Handler) listWishlist(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, handler.service.Wishlist(userID))
}

// POST /api/v1/wishlist
func (handler *Handler) addToWishlist(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input wishlistRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := (&validate.Validator{}).Required(market.FieldProductID, input.ProductID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.AddToWishlist(userID, input.ProductID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// DELETE /api/v1/wishlist/{productID}
func (handler *Handler) removeFromWishlist(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.service.RemoveFromWishlist(userID, requestutil.Param(request, "productID"))
	respond.NoContent(writer)
}

// # Addresses

// GET /api/v1/addresses
func (handler *Handler) listAddresses(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, handler.service.Addresses(userID))
}

// POST /api/v1/addresses
func (handler *Handler) createAddress(writer http.ResponseWriter, request *http.Request) {
	handler.saveAddress(writer, request, "")
}

// PUT /api/v1/addresses/{addressID}
func (handler *Handler) updateAddress(writer http.ResponseWriter, request *http.Request) {
	handler.saveAddress(writer, request, requestutil.Param(request, "addressID"))
}

func (handler *Handler) saveAddress(writer http.ResponseWriter, request *http.Request, addressID string) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input market.AddressInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := input.Validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	address, err := handler.service.SaveAddress(userID, addressID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if addressID == "" {
		respond.Created(writer, address)
		return
	}
	respond.OK(writer, address)
}

// DELETE /api/v1/addresses/{addressID}
func (handler *Handler) deleteAddress(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteAddress(userID, requestutil.Param(request, "addressID")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Orders

// GET /api/v1/orders
func (handler *Handler) listOrders(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, handler.service.Orders(userID))
}

// POST /api/v1/orders
func (handler *Handler) placeOrder(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input market.PlaceOrderInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := input.Validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	order, err := handler.service.PlaceOrder(userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, order)
}
