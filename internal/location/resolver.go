// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package location

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/taibuivan/bahari/internal/platform/constants"
)

// Resolver turns a single position fix into a [Record].
type Resolver struct {
	positioner Positioner
	region     Region
	options    PositionOptions
	now        func() time.Time
	logger     *slog.Logger
}

// ResolverOption customises a [Resolver].
type ResolverOption func(*Resolver)

// WithRegion replaces the home region used for classification.
func WithRegion(region Region) ResolverOption {
	return func(r *Resolver) { r.region = region }
}

// WithResolverClock replaces the time source used to stamp records.
func WithResolverClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) { r.now = now }
}

// WithPositionTimeout overrides the hard deadline of a positioning read.
func WithPositionTimeout(timeout time.Duration) ResolverOption {
	return func(r *Resolver) { r.options.Timeout = timeout }
}

// NewResolver builds a resolver. A nil positioner behaves as "not supported".
func NewResolver(positioner Positioner, logger *slog.Logger, opts ...ResolverOption) *Resolver {
	resolver := &Resolver{
		positioner: positioner,
		region:     HomeRegion,
		options: PositionOptions{
			HighAccuracy: true,
			Timeout:      constants.PositionTimeout,
			MaxAge:       constants.PositionMaxAge,
		},
		now:    time.Now,
		logger: logger,
	}

	for _, opt := range opts {
		opt(resolver)
	}

	return resolver
}

/*
Resolve performs one positioning read and classifies it.

Description: The read is bounded by a hard deadline even when the positioner
ignores its context. Every failure is converted into a local record with the
error text attached.

Parameters:
  - ctx: context.Context

Returns:
  - Record: Never empty; Error is set on the fail-open path
*/
func (r *Resolver) Resolve(ctx context.Context) Record {
	if r.positioner == nil {
		return r.fallback(ErrUnsupported)
	}

	position, err := r.read(ctx)
	if err != nil {
		r.logger.Warn("location_resolve_failed", slog.Any("error", err))
		return r.fallback(err)
	}

	isLocal := r.region.Contains(position.Latitude, position.Longitude)
	country := InternationalCountry
	if isLocal {
		country = r.region.Name
	}

	r.logger.Debug("location_resolved",
		slog.Bool("is_local", isLocal),
		slog.Float64("accuracy_m", position.Accuracy),
	)

	return Record{
		Latitude:  position.Latitude,
		Longitude: position.Longitude,
		IsLocal:   isLocal,
		Country:   country,
		Timestamp: r.now().UnixMilli(),
	}
}

// Permission reports the positioning permission state.
// Capabilities that cannot be queried report [PermissionPrompt].
func (r *Resolver) Permission(ctx context.Context) PermissionState {
	querier, ok := r.positioner.(PermissionQuerier)
	if !ok {
		return PermissionPrompt
	}

	state, err := querier.Permission(ctx)
	if err != nil {
		r.logger.Debug("location_permission_query_failed", slog.Any("error", err))
		return PermissionPrompt
	}
	return state
}

type readResult struct {
	position Position
	err      error
}

// read runs the positioner under the hard timeout.
func (r *Resolver) read(ctx context.Context) (Position, error) {
	readCtx, cancel := context.WithTimeout(ctx, r.options.Timeout)
	defer cancel()

	// Buffered so an abandoned read never blocks its goroutine.
	results := make(chan readResult, 1)
	go func() {
		position, err := r.positioner.CurrentPosition(readCtx, r.options)
		results <- readResult{position: position, err: err}
	}()

	select {
	case result := <-results:
		if result.err != nil && errors.Is(result.err, context.DeadlineExceeded) {
			return Position{}, ErrTimeout
		}
		return result.position, result.err
	case <-readCtx.Done():
		if errors.Is(readCtx.Err(), context.DeadlineExceeded) {
			return Position{}, ErrTimeout
		}
		return Position{}, readCtx.Err()
	}
}

// fallback builds the fail-open record for err.
func (r *Resolver) fallback(err error) Record {
	return Record{
		IsLocal:   true,
		Country:   r.region.Name,
		Error:     describe(err),
		Timestamp: r.now().UnixMilli(),
	}
}

// describe turns positioning errors into display text.
func describe(err error) string {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return "Location permission denied"
	case errors.Is(err, ErrUnsupported):
		return "Geolocation is not supported on this device"
	case errors.Is(err, ErrTimeout):
		return "Location request timed out"
	case errors.Is(err, ErrPositionUnavailable):
		return "Location information is unavailable"
	default:
		return err.Error()
	}
}
