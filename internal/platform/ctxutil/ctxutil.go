// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ctxutil carries per-call values on a [context.Context].

The storefront only sets a request ID, which its remote client forwards as
X-Request-ID. The sandbox middleware additionally stores the request logger and
the verified bearer claims.
*/
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/bahari/internal/platform/sec"
)

// contextKey is unexported so no other package can read or overwrite these values.
type contextKey uint8

const (
	requestIDKey contextKey = iota + 1
	loggerKey
	claimsKey
)

// WithRequestID tags ctx with a correlation ID.
//
// The remote client reuses an ID found here instead of minting a new one, so a
// single user action can be correlated across several API calls.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the correlation ID on ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithLogger attaches a request-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// Logger returns the logger on ctx. Without one it falls back to
// [slog.Default], tagged with the request ID when ctx carries one.
func Logger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	if id := RequestID(ctx); id != "" {
		return slog.Default().With(slog.String("request_id", id))
	}
	return slog.Default()
}

// WithClaims records the verified bearer claims of a sandbox request.
func WithClaims(ctx context.Context, claims *sec.AuthClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// Claims returns the verified bearer claims, if the request carried a valid token.
func Claims(ctx context.Context) (*sec.AuthClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*sec.AuthClaims)
	return claims, ok && claims != nil
}
