// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the storefront.

It defines storage keys, cache lifetimes, positioning limits and the timing
values shared between the client core and the sandbox API.

Categories:

  - Storage Keys: Namespaced keys inside the persistent key-value cache.
  - Location: Cache and positioning lifetimes.
  - Server Timing: Read/Write/Idle timeouts for the sandbox HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "bahari-storefront"
	AppVersion = "0.1.0-dev"
)

// # Storage Keys (Cache Taxonomy)

const (
	// StorageNamespace prefixes every key this application writes.
	StorageNamespace = "bahari:"

	// KeyAuthToken holds the current bearer token.
	KeyAuthToken = StorageNamespace + "auth:token"

	// KeyLocationRecord holds the cached geolocation classification.
	KeyLocationRecord = StorageNamespace + "location:record"

	// KeyPersistRoot holds the serialized whitelisted-store snapshot.
	KeyPersistRoot = StorageNamespace + "persist:root"
)

// # Location

const (
	// LocationCacheTTL is how long a cached location record is trusted.
	LocationCacheTTL = 30 * time.Minute

	// PositionTimeout is the hard deadline for a single positioning read.
	PositionTimeout = 10 * time.Second

	// PositionMaxAge is the oldest underlying position fix a positioner may reuse.
	PositionMaxAge = 5 * time.Minute
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in sandbox JWTs.
	AuthIssuer = "sandbox.bahari.co.tz"

	// SandboxTokenTTL is the lifetime of a token issued by the sandbox.
	SandboxTokenTTL = 7 * 24 * time.Hour

	// OTPTTL is how long a one-time code stays valid in the sandbox.
	OTPTTL = 5 * time.Minute

	// OTPLength is the number of digits in a one-time code.
	OTPLength = 6

	// LoginRoute is the client-side entry point a 401 redirects to.
	LoginRoute = "/login"
)

// # HTTP Headers

const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderAccept        = "Accept"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"

	ContentTypeJSON = "application/json; charset=utf-8"
	BearerScheme    = "Bearer"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)
