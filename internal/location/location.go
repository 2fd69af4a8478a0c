// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package location classifies the shopper as local or international.

It is made of two layers:

  - Resolver: takes one position fix from a [Positioner] and tests it against
    the home-country bounding box.
  - Cache: keeps the last good [Record] in the key-value store for 30 minutes
    so the positioning capability is not queried on every page.

# Fail-open policy

Any positioning failure (no capability, denied permission, timeout) resolves
to a local record carrying the error text. Unknown shoppers are treated as
local rather than blocked from checkout.
*/
package location

import (
	"context"
	"errors"
	"time"
)

// # Domain Entities

// Record is a timestamped location classification.
type Record struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	IsLocal   bool    `json:"isLocal"`
	Country   string  `json:"country,omitempty"`
	Error     string  `json:"error,omitempty"`

	// Timestamp is the resolution time in Unix milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// ResolvedAt returns the record timestamp as a [time.Time].
func (r Record) ResolvedAt() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// Failed reports whether the record is a fail-open fallback.
func (r Record) Failed() bool {
	return r.Error != ""
}

// Position is a single fix returned by a [Positioner].
type Position struct {
	Latitude  float64
	Longitude float64

	// Accuracy is the radius of uncertainty in metres. Zero means unknown.
	Accuracy float64

	// Timestamp is when the fix was taken. Positioners may return an older
	// fix as long as it is within [PositionOptions.MaxAge].
	Timestamp time.Time
}

// PositionOptions mirrors the knobs of a one-shot platform positioning request.
type PositionOptions struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaxAge       time.Duration
}

// # Capability Boundary

// Positioner is the platform positioning capability.
type Positioner interface {
	// CurrentPosition performs a single best-effort fix.
	CurrentPosition(ctx context.Context, options PositionOptions) (Position, error)
}

// PermissionState is the result of a positioning permission query.
type PermissionState string

const (
	PermissionGranted PermissionState = "granted"
	PermissionDenied  PermissionState = "denied"
	PermissionPrompt  PermissionState = "prompt"
)

// PermissionQuerier is an optional capability a [Positioner] may implement.
type PermissionQuerier interface {
	Permission(ctx context.Context) (PermissionState, error)
}

// # Errors

var (
	// ErrUnsupported is returned when no positioning capability exists.
	ErrUnsupported = errors.New("geolocation is not supported")

	// ErrPermissionDenied is returned when the user refused positioning.
	ErrPermissionDenied = errors.New("location permission denied")

	// ErrPositionUnavailable is returned when a fix could not be obtained.
	ErrPositionUnavailable = errors.New("location unavailable")

	// ErrTimeout is returned when no fix arrived before the deadline.
	ErrTimeout = errors.New("location request timed out")
)

// # Home Region

// Region is an inclusive latitude/longitude rectangle.
type Region struct {
	Name  string
	South float64
	North float64
	West  float64
	East  float64
}

// Contains reports whether the coordinate lies inside the rectangle, edges included.
func (r Region) Contains(latitude, longitude float64) bool {
	return latitude >= r.South && latitude <= r.North &&
		longitude >= r.West && longitude <= r.East
}

// HomeRegion is the bounding rectangle of Tanzania.
var HomeRegion = Region{
	Name:  "Tanzania",
	South: -11.75,
	North: -0.95,
	West:  29.32,
	East:  40.45,
}

// InternationalCountry labels records that fall outside the home region.
const InternationalCountry = "International"
