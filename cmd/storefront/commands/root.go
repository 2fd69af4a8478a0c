// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/taibuivan/bahari/internal/platform/apperr"
	"github.com/taibuivan/bahari/internal/platform/config"
	"github.com/taibuivan/bahari/internal/platform/constants"
	"github.com/taibuivan/bahari/internal/storefront"
)

var (
	appCtx *storefront.App

	apiURL  string
	storage string
)

// Execute builds the command tree and runs it.
func Execute() error {
	root := &cobra.Command{
		Use:           "bahari",
		Short:         "Bahari seafood marketplace storefront",
		Version:       constants.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if apiURL != "" {
				cfg.APIBaseURL = apiURL
			}
			if storage != "" {
				cfg.StorageDriver = storage
			}

			level := slog.LevelWarn
			if cfg.Debug {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
				With(slog.String("app", constants.AppName))

			appCtx, err = storefront.New(cmd.Context(), storefront.Options{
				Config: cfg,
				Logger: logger,
				OnLoginRequired: func(context.Context) {
					fmt.Fprintln(cmd.ErrOrStderr(), "Session ended. Run `bahari login <phone>` to sign in again.")
				},
			})
			return err
		},
	}

	root.PersistentFlags().StringVar(&apiURL, "api", "", "marketplace API base URL (overrides API_BASE_URL)")
	root.PersistentFlags().StringVar(&storage, "storage", "", "storage driver: sqlite, redis or memory (overrides STORAGE_DRIVER)")

	root.AddCommand(
		registerCmd(), loginCmd(), verifyCmd(), logoutCmd(), whoamiCmd(),
		productsCmd(), cartCmd(),
		wishlistCmd(), addressCmd(), ordersCmd(),
		locationCmd(),
	)

	err := root.ExecuteContext(context.Background())

	if appCtx != nil {
		if cerr := appCtx.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", apperr.DisplayMessage(err, err.Error()))
	}
	return err
}
