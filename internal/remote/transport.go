// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package remote

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/bahari/internal/platform/constants"
	"github.com/taibuivan/bahari/internal/platform/ctxutil"
	"github.com/taibuivan/bahari/pkg/ident"
)

// # Collaborator Contracts

// CredentialProvider exposes the current bearer credential to the client.
//
// # Why an interface?
//
// The session store owns the credential; the client only needs to read it
// and to evict it on a 401. Tests inject a fake.
type CredentialProvider interface {
	// Token returns the current bearer token. ok is false when anonymous.
	Token(ctx context.Context) (token string, ok bool, err error)

	// Evict removes the persisted credential.
	Evict(ctx context.Context) error
}

// Redirector sends the user back to the login entry point.
type Redirector interface {
	RedirectToLogin(ctx context.Context)
}

// RedirectFunc adapts a plain function to [Redirector].
type RedirectFunc func(ctx context.Context)

// RedirectToLogin implements [Redirector].
func (f RedirectFunc) RedirectToLogin(ctx context.Context) { f(ctx) }

// # Interceptor Chain
//
// Each stage is an [http.RoundTripper] decorator. The chain is assembled once
// in [New]; every request issued by every store passes through it.

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(request *http.Request) (*http.Response, error) { return f(request) }

// withRequestID tags every request with a correlation ID.
func withRequestID(next http.RoundTripper) http.RoundTripper {
	return roundTripFunc(func(request *http.Request) (*http.Response, error) {

		// 1. Reuse the caller's ID so one user action shares a single ID
		requestID := ctxutil.RequestID(request.Context())

		// 2. Generate a new one if missing (UUIDv7 is time-sortable)
		if requestID == "" {
			requestID = ident.Request()
		}

		outgoing := request.Clone(request.Context())
		outgoing.Header.Set(constants.HeaderXRequestID, requestID)
		return next.RoundTrip(outgoing)
	})
}

// withCredentials attaches the bearer token when one is held.
func withCredentials(next http.RoundTripper, credentials CredentialProvider, logger *slog.Logger) http.RoundTripper {
	return roundTripFunc(func(request *http.Request) (*http.Response, error) {
		token, ok, err := credentials.Token(request.Context())
		if err != nil {
			// An unreadable credential store degrades to an anonymous request.
			logger.Warn("credential_read_failed", slog.Any("error", err))
		}

		if !ok || token == "" {
			return next.RoundTrip(request)
		}

		outgoing := request.Clone(request.Context())
		outgoing.Header.Set(constants.HeaderAuthorization, constants.BearerScheme+" "+token)
		return next.RoundTrip(outgoing)
	})
}

// withUnauthorizedHandler evicts the credential and redirects on any 401.
func withUnauthorizedHandler(next http.RoundTripper, credentials CredentialProvider, redirector Redirector, logger *slog.Logger) http.RoundTripper {
	return roundTripFunc(func(request *http.Request) (*http.Response, error) {
		response, err := next.RoundTrip(request)
		if err != nil || response.StatusCode != http.StatusUnauthorized {
			return response, err
		}

		ctx := request.Context()
		logger.Warn("session_rejected_by_api",
			slog.String("method", request.Method),
			slog.String("path", request.URL.Path),
		)

		if evictErr := credentials.Evict(ctx); evictErr != nil {
			logger.Error("credential_evict_failed", slog.Any("error", evictErr))
		}
		redirector.RedirectToLogin(ctx)

		return response, nil
	})
}
