// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package remote is the single HTTP client for the marketplace API.

Every store talks to the backend through one [Client]. Its transport is an
interceptor chain applied uniformly to all calls:

  - Request stage: tags the request with an X-Request-ID and, when the
    [CredentialProvider] holds a token, an "Authorization: Bearer" header.
  - Response stage: a 401 evicts the credential and triggers the
    [Redirector] once; every other status passes through to the caller.

Responses use the API's JSON envelopes ({"data": ...} on success,
{"error","code","details"} on failure) and failures surface as
[*apperr.AppError]. The client sets no timeout of its own; callers bound
calls through their context.
*/
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/taibuivan/bahari/internal/platform/apperr"
	"github.com/taibuivan/bahari/internal/platform/constants"
)

// Client issues JSON requests against one base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// Options configures a [Client].
type Options struct {
	// BaseURL is the API root, e.g. "https://api.bahari.co.tz/api/v1".
	BaseURL string

	// Credentials supplies and evicts the bearer token. Required.
	Credentials CredentialProvider

	// Redirector is invoked on every 401 response. Required.
	Redirector Redirector

	// Transport is the innermost round tripper. Defaults to [http.DefaultTransport].
	Transport http.RoundTripper

	// RateLimit caps outgoing requests per second. Zero disables the limiter.
	RateLimit float64

	Logger *slog.Logger
}

// New builds a client with the interceptor chain installed.
func New(options Options) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(options.BaseURL))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("remote: invalid base URL %q", options.BaseURL)
	}
	if options.Credentials == nil || options.Redirector == nil {
		return nil, errors.New("remote: credentials and redirector are required")
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	transport := options.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	// Innermost first: the 401 handler sees raw responses, the outer stages
	// decorate the outgoing request.
	transport = withUnauthorizedHandler(transport, options.Credentials, options.Redirector, logger)
	transport = withCredentials(transport, options.Credentials, logger)
	transport = withRequestID(transport)

	limiter := rate.NewLimiter(rate.Inf, 0)
	if options.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(options.RateLimit), max(1, int(options.RateLimit)))
	}

	return &Client{
		baseURL:    strings.TrimRight(base.String(), "/"),
		httpClient: &http.Client{Transport: transport},
		limiter:    limiter,
		logger:     logger,
	}, nil
}

// # Envelopes

type successEnvelope struct {
	Data json.RawMessage `json:"data"`
}

type errorEnvelope struct {
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// # Request Execution

/*
do performs one JSON round trip.

Parameters:
  - ctx: context.Context
  - method: HTTP method
  - path: Path relative to the base URL (leading slash)
  - body: Request payload, nil for none
  - out: Pointer receiving the "data" member, nil to discard

Returns:
  - error: *apperr.AppError for API and network failures, ctx errors on cancellation
*/
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("remote_encode_failed: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("remote_request_build_failed: %w", err)
	}
	request.Header.Set(constants.HeaderAccept, "application/json")
	if body != nil {
		request.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Warn("remote_call_failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.Any("error", err),
		)
		return apperr.Network(err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return decodeError(response)
	}

	if out == nil || response.StatusCode == http.StatusNoContent {
		return nil
	}

	var envelope successEnvelope
	if err := json.NewDecoder(response.Body).Decode(&envelope); err != nil {
		return apperr.FromStatus(response.StatusCode, fmt.Errorf("remote_decode_failed: %w", err))
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return apperr.FromStatus(response.StatusCode, fmt.Errorf("remote_decode_data_failed: %w", err))
	}

	return nil
}

// decodeError maps an error response to an [*apperr.AppError].
func decodeError(response *http.Response) error {
	var envelope errorEnvelope
	if err := json.NewDecoder(response.Body).Decode(&envelope); err != nil || envelope.Error == "" {
		return apperr.FromStatus(response.StatusCode, err)
	}

	return &apperr.AppError{
		Code:       envelope.Code,
		Message:    envelope.Error,
		HTTPStatus: response.StatusCode,
		Details:    envelope.Details,
	}
}
