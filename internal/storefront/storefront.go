// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storefront is the composition root of the client state layer.

[New] wires, in order:

 1. The key-value cache chosen by configuration (SQLite, Redis or memory).
 2. The credential vault and the remote client with its interceptor chain.
 3. The session, cart, wishlist, address and order stores.
 4. The location resolver and cache.
 5. The persistence gateway, which rehydrates the whitelisted stores before
    [New] returns and then keeps the snapshot current. Wishlist and addresses
    are only kept when the session itself was restored.

Nothing here is global: every dependency is passed through constructors so
tests can assemble the same graph around fakes.
*/
package storefront

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/taibuivan/bahari/internal/address"
	"github.com/taibuivan/bahari/internal/cart"
	"github.com/taibuivan/bahari/internal/location"
	"github.com/taibuivan/bahari/internal/orders"
	"github.com/taibuivan/bahari/internal/persist"
	"github.com/taibuivan/bahari/internal/platform/config"
	"github.com/taibuivan/bahari/internal/platform/kv"
	"github.com/taibuivan/bahari/internal/remote"
	"github.com/taibuivan/bahari/internal/session"
	"github.com/taibuivan/bahari/internal/wishlist"
)

// Persisted entry names inside the snapshot object.
const (
	EntryAuth     = "auth"
	EntryCart     = "cart"
	EntryWishlist = "wishlist"
	EntryAddress  = "address"
)

// Options configures [New]. Only Config is required.
type Options struct {
	Config *config.Config

	// Store overrides the key-value cache opened from Config.
	Store kv.Store

	// Positioner overrides the positioning capability chosen from Config.
	Positioner location.Positioner

	// Transport is the innermost HTTP round tripper for API calls.
	Transport http.RoundTripper

	// OnLoginRequired runs after a 401 has ended the session.
	OnLoginRequired func(ctx context.Context)

	Logger *slog.Logger
}

// App holds the wired stores.
type App struct {
	API      *remote.Client
	Session  *session.Store
	Cart     *cart.Store
	Wishlist *wishlist.Store
	Address  *address.Store
	Orders   *orders.Store
	Location *location.Cache
	Resolver *location.Resolver
	Gateway  *persist.Gateway

	closer    io.Closer
	closeOnce sync.Once
	stopWatch func()
}

/*
New builds the storefront and rehydrates persisted state.

Parameters:
  - ctx: context.Context (bounds startup I/O and later write-through)
  - options: Options

Returns:
  - *App: Ready to use; call [App.Close] when done
  - error: Storage or client construction failure
*/
func New(ctx context.Context, options Options) (*App, error) {
	if options.Config == nil {
		return nil, errors.New("storefront: config is required")
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// 1. Key-value cache
	store, closer := options.Store, io.Closer(nil)
	if store == nil {
		opened, openedCloser, err := OpenStore(ctx, options.Config, logger)
		if err != nil {
			return nil, err
		}
		store, closer = opened, openedCloser
	}

	app := &App{closer: closer}

	// 2. Credential vault and remote client
	vault := session.NewVault(store)
	client, err := remote.New(remote.Options{
		BaseURL:     options.Config.APIBaseURL,
		Credentials: vault,
		Redirector:  remote.RedirectFunc(app.loginRequired(options.OnLoginRequired)),
		Transport:   options.Transport,
		RateLimit:   options.Config.APIRateLimitRPS,
		Logger:      logger.With(slog.String("component", "remote")),
	})
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.API = client

	// 3. Stores
	app.Session = session.NewStore(client, vault, logger.With(slog.String("component", "session")))
	app.Cart = cart.NewStore(logger.With(slog.String("component", "cart")))
	app.Wishlist = wishlist.NewStore(client, logger.With(slog.String("component", "wishlist")))
	app.Address = address.NewStore(client, logger.With(slog.String("component", "address")))
	app.Orders = orders.NewStore(client, app.Cart, logger.With(slog.String("component", "orders")))

	// 4. Location
	positioner := options.Positioner
	if positioner == nil {
		positioner = NewPositioner(options.Config)
	}
	app.Resolver = location.NewResolver(positioner, logger.With(slog.String("component", "location")))
	app.Location = location.NewCache(store, app.Resolver, logger.With(slog.String("component", "location")))

	// 5. Persistence
	app.Gateway = persist.NewGateway(store, logger.With(slog.String("component", "persist")),
		persist.Bind[session.State](EntryAuth, app.Session),
		persist.Bind[cart.Cart](EntryCart, app.Cart),
		persist.Bind[wishlist.State](EntryWishlist, app.Wishlist),
		persist.Bind[address.State](EntryAddress, app.Address),
	)

	if err := app.Gateway.Rehydrate(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}

	// A snapshot can outlive its credential (token evicted or expired while
	// the app was closed). Its account mirrors go with it.
	if !app.Session.State().IsAuthenticated && app.holdsAccountData() {
		app.clearAccount()
		if err := app.Gateway.Flush(ctx); err != nil {
			_ = app.Close()
			return nil, err
		}
		logger.Info("account_data_dropped", slog.String("reason", "session_not_restored"))
	}

	app.Gateway.Start(context.WithoutCancel(ctx))
	app.stopWatch = app.watchSession()

	logger.Debug("storefront_ready", slog.String("phase", string(app.Session.State().Phase())))
	return app, nil
}

// loginRequired is the redirect hook handed to the remote client.
func (a *App) loginRequired(next func(ctx context.Context)) func(ctx context.Context) {
	return func(ctx context.Context) {
		if a.Session != nil {
			a.Session.Expire(ctx)
		}
		if next != nil {
			next(ctx)
		}
	}
}

// watchSession clears account mirrors whenever the user stops being signed in.
// The cart is kept; it belongs to the device, not the account.
func (a *App) watchSession() func() {
	var mu sync.Mutex
	wasAuthenticated := a.Session.State().IsAuthenticated

	return a.Session.Subscribe(func() {
		authenticated := a.Session.State().IsAuthenticated

		mu.Lock()
		ended := wasAuthenticated && !authenticated
		wasAuthenticated = authenticated
		mu.Unlock()

		if ended {
			a.clearAccount()
		}
	})
}

func (a *App) holdsAccountData() bool {
	return len(a.Wishlist.State().ProductIDs) > 0 || len(a.Address.State().Addresses) > 0 || len(a.Orders.State().Orders) > 0
}

func (a *App) clearAccount() {
	a.Wishlist.Reset()
	a.Address.Reset()
	a.Orders.Reset()
}

// Close stops write-through and releases the key-value cache.
func (a *App) Close() error {
	var err error
	a.closeOnce.Do(func() {
		if a.stopWatch != nil {
			a.stopWatch()
		}
		if a.Gateway != nil {
			a.Gateway.Stop()
		}
		if a.closer != nil {
			err = a.closer.Close()
		}
	})
	return err
}

// # Factories

// OpenStore opens the key-value cache selected by cfg.StorageDriver.
// The returned closer is nil for the memory driver.
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (kv.Store, io.Closer, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		return kv.NewMemory(), nil, nil

	case config.StorageRedis:
		store, err := kv.OpenRedis(ctx, cfg.RedisURL, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil

	default:
		path, err := StoragePath(cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, nil, fmt.Errorf("storage_dir_create_failed: %w", err)
		}

		store, err := kv.OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("kv_sqlite_opened", slog.String("path", path))
		return store, store, nil
	}
}

// StoragePath resolves the SQLite file, defaulting to the user cache directory.
func StoragePath(cfg *config.Config) (string, error) {
	if cfg.StoragePath != "" {
		return cfg.StoragePath, nil
	}

	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("storage_path_resolve_failed: %w", err)
	}
	return filepath.Join(dir, "bahari", "storefront.db"), nil
}

// NewPositioner picks the positioning capability described by cfg.
func NewPositioner(cfg *config.Config) location.Positioner {
	switch {
	case cfg.GeoLookupURL != "":
		return location.NewIPLookup(cfg.GeoLookupURL, nil)
	case cfg.GeoFixedLat != nil && cfg.GeoFixedLon != nil:
		return location.Fixed{Latitude: *cfg.GeoFixedLat, Longitude: *cfg.GeoFixedLon}
	default:
		return location.Unavailable{}
	}
}
