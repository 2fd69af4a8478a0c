// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package location_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bahari/internal/location"
	"github.com/taibuivan/bahari/internal/platform/constants"
	"github.com/taibuivan/bahari/internal/platform/kv"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// countingPositioner records how many reads were performed.
type countingPositioner struct {
	mu       sync.Mutex
	reads    int
	position location.Position
	err      error
}

func (p *countingPositioner) CurrentPosition(context.Context, location.PositionOptions) (location.Position, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reads++
	return p.position, p.err
}

func (p *countingPositioner) Reads() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reads
}

// blockingPositioner never answers and ignores its context.
type blockingPositioner struct{ release chan struct{} }

func (p blockingPositioner) CurrentPosition(context.Context, location.PositionOptions) (location.Position, error) {
	<-p.release
	return location.Position{}, nil
}

// fakeClock is a manually advanced time source.
type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newCache(store kv.Store, positioner location.Positioner, clock *fakeClock) *location.Cache {
	resolver := location.NewResolver(positioner, discardLogger, location.WithResolverClock(clock.Now))
	return location.NewCache(store, resolver, discardLogger, location.WithCacheClock(clock.Now))
}

/*
TestRegion_Contains checks the inclusive bounding-box test.
*/
func TestRegion_Contains(t *testing.T) {
	region := location.HomeRegion

	tests := []struct {
		name     string
		lat, lon float64
		inside   bool
	}{
		{"dar_es_salaam", -6.7924, 39.2083, true},
		{"mwanza", -2.5164, 32.9175, true},
		{"south_west_corner", region.South, region.West, true},
		{"north_east_corner", region.North, region.East, true},
		{"just_south", region.South - 0.0001, 35, false},
		{"just_east", -6, region.East + 0.0001, false},
		{"nairobi", -1.2921, 36.8219, false},
		{"oslo", 59.9139, 10.7522, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.inside, region.Contains(tt.lat, tt.lon))
		})
	}
}

/*
TestResolver_Classifies verifies local and international classification.
*/
func TestResolver_Classifies(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}

	local := location.NewResolver(location.Fixed{Latitude: -6.79, Longitude: 39.21}, discardLogger, location.WithResolverClock(clock.Now))
	record := local.Resolve(context.Background())
	assert.True(t, record.IsLocal)
	assert.Equal(t, "Tanzania", record.Country)
	assert.Empty(t, record.Error)
	assert.Equal(t, clock.now.UnixMilli(), record.Timestamp)

	abroad := location.NewResolver(location.Fixed{Latitude: 51.5, Longitude: -0.12}, discardLogger)
	record = abroad.Resolve(context.Background())
	assert.False(t, record.IsLocal)
	assert.Equal(t, location.InternationalCountry, record.Country)
}

/*
TestResolver_FailsOpen verifies every failure resolves to a local record.
*/
func TestResolver_FailsOpen(t *testing.T) {
	tests := []struct {
		name       string
		positioner location.Positioner
		message    string
	}{
		{"no_capability", nil, "Geolocation is not supported on this device"},
		{"unsupported", location.Unavailable{}, "Geolocation is not supported on this device"},
		{"denied", &countingPositioner{err: location.ErrPermissionDenied}, "Location permission denied"},
		{"unavailable", &countingPositioner{err: location.ErrPositionUnavailable}, "Location information is unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := location.NewResolver(tt.positioner, discardLogger).Resolve(context.Background())
			assert.True(t, record.IsLocal)
			assert.Equal(t, tt.message, record.Error)
		})
	}
}

/*
TestResolver_HardTimeout verifies a positioner ignoring its context still times out.
*/
func TestResolver_HardTimeout(t *testing.T) {
	positioner := blockingPositioner{release: make(chan struct{})}
	defer close(positioner.release)

	resolver := location.NewResolver(positioner, discardLogger, location.WithPositionTimeout(20*time.Millisecond))

	record := resolver.Resolve(context.Background())
	assert.True(t, record.IsLocal)
	assert.Equal(t, "Location request timed out", record.Error)
}

/*
TestResolver_Permission degrades to prompt without a permission capability.
*/
func TestResolver_Permission(t *testing.T) {
	assert.Equal(t, location.PermissionPrompt, location.NewResolver(location.Unavailable{}, discardLogger).Permission(context.Background()))
	assert.Equal(t, location.PermissionGranted, location.NewResolver(location.Fixed{}, discardLogger).Permission(context.Background()))
}

/*
TestCache_SingleReadWithinTTL covers repeated lookups and forced refresh.
*/
func TestCache_SingleReadWithinTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	positioner := &countingPositioner{position: location.Position{Latitude: -6.79, Longitude: 39.21}}
	cache := newCache(kv.NewMemory(), positioner, clock)
	ctx := context.Background()

	first := cache.Get(ctx)
	clock.Advance(29 * time.Minute)
	second := cache.Get(ctx)

	assert.Equal(t, 1, positioner.Reads())
	assert.Equal(t, first, second)

	cache.Refresh(ctx)
	assert.Equal(t, 2, positioner.Reads())
}

/*
TestCache_ExpiresAfterTTL verifies stale records are replaced.
*/
func TestCache_ExpiresAfterTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	positioner := &countingPositioner{position: location.Position{Latitude: -6.79, Longitude: 39.21}}
	cache := newCache(kv.NewMemory(), positioner, clock)
	ctx := context.Background()

	cache.Get(ctx)
	clock.Advance(30 * time.Minute)
	record := cache.Get(ctx)

	assert.Equal(t, 2, positioner.Reads())
	assert.Equal(t, clock.now.UnixMilli(), record.Timestamp)
}

/*
TestCache_ErrorsAreNotPersisted verifies fail-open results are never cached.
*/
func TestCache_ErrorsAreNotPersisted(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	positioner := &countingPositioner{err: location.ErrPermissionDenied}
	store := kv.NewMemory()
	cache := newCache(store, positioner, clock)
	ctx := context.Background()

	record := cache.Get(ctx)
	assert.True(t, record.IsLocal)
	assert.NotEmpty(t, record.Error)

	_, found, err := store.Get(ctx, constants.KeyLocationRecord)
	require.NoError(t, err)
	assert.False(t, found)

	cache.Get(ctx)
	assert.Equal(t, 2, positioner.Reads())
}

/*
TestCache_CorruptEntryIsMiss verifies malformed JSON never breaks a lookup.
*/
func TestCache_CorruptEntryIsMiss(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	positioner := &countingPositioner{position: location.Position{Latitude: 40.7, Longitude: -74}}
	store := kv.NewMemory()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, constants.KeyLocationRecord, "{not json"))

	record := newCache(store, positioner, clock).Get(ctx)

	assert.Equal(t, 1, positioner.Reads())
	assert.False(t, record.IsLocal)

	raw, found, err := store.Get(ctx, constants.KeyLocationRecord)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Contains(t, raw, `"isLocal":false`)
}

/*
TestIPLookup_HonoursMaxAge verifies the HTTP positioner reuses a recent fix.
*/
func TestIPLookup_HonoursMaxAge(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"latitude": -3.37, "longitude": 36.68}`))
	}))
	defer server.Close()

	positioner := location.NewIPLookup(server.URL, server.Client())
	options := location.PositionOptions{MaxAge: time.Minute}

	first, err := positioner.CurrentPosition(context.Background(), options)
	require.NoError(t, err)
	second, err := positioner.CurrentPosition(context.Background(), options)
	require.NoError(t, err)

	assert.Equal(t, 1, hits)
	assert.Equal(t, first, second)
	assert.InDelta(t, -3.37, first.Latitude, 1e-9)

	_, err = positioner.CurrentPosition(context.Background(), location.PositionOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, hits)
}

/*
TestIPLookup_Forbidden maps a refused lookup to a permission error.
*/
func TestIPLookup_Forbidden(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := location.NewIPLookup(server.URL, server.Client()).CurrentPosition(context.Background(), location.PositionOptions{})
	assert.ErrorIs(t, err, location.ErrPermissionDenied)
}
