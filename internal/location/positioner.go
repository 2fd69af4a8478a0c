// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package location

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/taibuivan/bahari/internal/platform/constants"
)

// # Fixed Positioner

// Fixed always reports the same coordinates. Used for kiosks and the CLI's
// --lat/--lon flags.
type Fixed struct {
	Latitude  float64
	Longitude float64
}

// CurrentPosition implements [Positioner].
func (f Fixed) CurrentPosition(_ context.Context, _ PositionOptions) (Position, error) {
	return Position{Latitude: f.Latitude, Longitude: f.Longitude, Timestamp: time.Now()}, nil
}

// Permission implements [PermissionQuerier].
func (f Fixed) Permission(context.Context) (PermissionState, error) {
	return PermissionGranted, nil
}

// # Unavailable Positioner

// Unavailable models a device without positioning.
type Unavailable struct{}

// CurrentPosition implements [Positioner].
func (Unavailable) CurrentPosition(context.Context, PositionOptions) (Position, error) {
	return Position{}, ErrUnsupported
}

// # IP Lookup Positioner

// IPLookup derives a coarse position from an HTTP geolocation endpoint that
// answers with {"latitude": ..., "longitude": ...}.
//
// It honours [PositionOptions.MaxAge] by reusing its last fix.
type IPLookup struct {
	url    string
	client *http.Client
	now    func() time.Time

	mu   sync.Mutex
	last *Position
}

// NewIPLookup builds an IP-based positioner. A nil client uses [http.DefaultClient].
func NewIPLookup(url string, client *http.Client) *IPLookup {
	if client == nil {
		client = http.DefaultClient
	}
	return &IPLookup{url: url, client: client, now: time.Now}
}

type lookupResponse struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// CurrentPosition implements [Positioner].
func (p *IPLookup) CurrentPosition(ctx context.Context, options PositionOptions) (Position, error) {
	p.mu.Lock()
	if p.last != nil && options.MaxAge > 0 && p.now().Sub(p.last.Timestamp) < options.MaxAge {
		cached := *p.last
		p.mu.Unlock()
		return cached, nil
	}
	p.mu.Unlock()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return Position{}, fmt.Errorf("ip_lookup_request_failed: %w", err)
	}
	request.Header.Set(constants.HeaderAccept, "application/json")

	response, err := p.client.Do(request)
	if err != nil {
		return Position{}, fmt.Errorf("%w: %w", ErrPositionUnavailable, err)
	}
	defer response.Body.Close()

	switch {
	case response.StatusCode == http.StatusForbidden:
		return Position{}, ErrPermissionDenied
	case response.StatusCode != http.StatusOK:
		return Position{}, fmt.Errorf("%w: lookup returned %s", ErrPositionUnavailable, response.Status)
	}

	var body lookupResponse
	if err := json.NewDecoder(response.Body).Decode(&body); err != nil {
		return Position{}, fmt.Errorf("%w: %w", ErrPositionUnavailable, err)
	}
	if body.Latitude == nil || body.Longitude == nil {
		return Position{}, fmt.Errorf("%w: lookup returned no coordinates", ErrPositionUnavailable)
	}

	position := Position{
		Latitude:  *body.Latitude,
		Longitude: *body.Longitude,
		Timestamp: p.now(),
	}

	p.mu.Lock()
	p.last = &position
	p.mu.Unlock()

	return position, nil
}
