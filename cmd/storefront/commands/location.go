// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taibuivan/bahari/internal/location"
)

func locationCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "location",
		Short: "Show whether delivery is available where you are",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var record location.Record
			if refresh {
				record = appCtx.Location.Refresh(cmd.Context())
			} else {
				record = appCtx.Location.Get(cmd.Context())
			}

			out := cmd.OutOrStdout()
			switch {
			case record.Failed():
				fmt.Fprintf(out, "Location unavailable (%s). Showing the full catalogue.\n", record.Error)
			case record.IsLocal:
				fmt.Fprintf(out, "Delivery available at %.4f, %.4f.\n", record.Latitude, record.Longitude)
			default:
				fmt.Fprintf(out, "Outside the delivery area (%.4f, %.4f).\n", record.Latitude, record.Longitude)
			}

			fmt.Fprintf(out, "Permission: %s\nResolved: %s\n",
				appCtx.Resolver.Permission(cmd.Context()), record.ResolvedAt().Local().Format("2006-01-02 15:04:05"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore the cached location")
	return cmd
}
