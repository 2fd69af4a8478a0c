// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command sandbox runs a local marketplace API for the storefront to talk to.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open the one-time code store (memory or Redis).
//  4. Seed demo accounts and products.
//  5. Wire HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/bahari/internal/api"
	"github.com/taibuivan/bahari/internal/platform/config"
	"github.com/taibuivan/bahari/internal/platform/constants"
	"github.com/taibuivan/bahari/internal/platform/kv"
	"github.com/taibuivan/bahari/internal/platform/sec"
	"github.com/taibuivan/bahari/internal/sandbox"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	log.Info("[Bahari] sandbox_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.LoadSandbox()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	if cfg.IsProduction() && cfg.FixedOTP != "" {
		log.Warn("fixed_otp_in_production")
	}

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. One-time code store ────────────────────────────────────────────
	var codeStore kv.Store = kv.NewMemory()
	if cfg.RedisURL != "" {
		redisStore, err := kv.OpenRedis(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := redisStore.Close(); cerr != nil {
				log.Error("redis_close_failed", slog.Any("error", cerr))
			}
		}()
		codeStore = redisStore
	}

	// ── 4. Data ───────────────────────────────────────────────────────────
	repository := sandbox.NewRepository()
	must(log, sandbox.Seed(repository), "seed sandbox data")

	tokens, err := sec.NewTokenService(cfg.JWTSecret, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	otps := sandbox.NewOTPStore(codeStore, constants.OTPTTL, time.Now)
	service := sandbox.NewService(repository, otps, tokens, log, sandbox.ServiceOptions{FixedOTP: cfg.FixedOTP})

	// ── 5. Handlers ───────────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckStore: api.StoreCheck(codeStore),
	}, log)

	server := api.NewServer(rootCtx, cfg, log, tokens, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Sandbox:   sandbox.NewHandler(service),
	})

	// ── 6. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// newLogger builds the process JSON logger and installs it as the default.
func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", "bahari-sandbox"))
	slog.SetDefault(log)
	return log
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
