// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/taibuivan/bahari/internal/cart"
	"github.com/taibuivan/bahari/internal/market"
)

// # Wishlist

func wishlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Show saved products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.Wishlist.Sync(cmd.Context()); err != nil {
				return err
			}

			ids := appCtx.Wishlist.State().ProductIDs
			if len(ids) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Wishlist is empty.")
				return nil
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <product-id>",
			Short: "Save a product",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return appCtx.Wishlist.Add(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:   "remove <product-id>",
			Short: "Forget a saved product",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return appCtx.Wishlist.Remove(cmd.Context(), args[0])
			},
		},
	)
	return cmd
}

// # Addresses

func addressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Show delivery addresses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.Address.Sync(cmd.Context()); err != nil {
				return err
			}

			table := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(table, "ID\tLABEL\tRECIPIENT\tADDRESS\tDEFAULT")
			for _, address := range appCtx.Address.State().Addresses {
				fmt.Fprintf(table, "%s\t%s\t%s\t%s, %s, %s\t%s\n",
					address.ID, address.Label, address.Recipient, address.Street, address.City, address.Region, mark(address.IsDefault))
			}
			return table.Flush()
		},
	}

	var input market.AddressInput
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a delivery address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := appCtx.Address.Add(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", address.Label, address.ID)
			return nil
		},
	}
	add.Flags().StringVar(&input.Label, "label", "Home", "short name for the address")
	add.Flags().StringVar(&input.Recipient, "recipient", "", "who receives the delivery")
	add.Flags().StringVar(&input.PhoneNumber, "phone", "", "recipient phone number")
	add.Flags().StringVar(&input.Region, "region", "", "region")
	add.Flags().StringVar(&input.City, "city", "", "city or district")
	add.Flags().StringVar(&input.Street, "street", "", "street and house")
	add.Flags().BoolVar(&input.IsDefault, "default", false, "make this the default address")

	remove := &cobra.Command{
		Use:   "remove <address-id>",
		Short: "Delete a delivery address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return appCtx.Address.Remove(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(add, remove)
	return cmd
}

// # Orders

func ordersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Show placed orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.Orders.Sync(cmd.Context()); err != nil {
				return err
			}

			table := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(table, "ID\tSTATUS\tITEMS\tTOTAL\tPLACED")
			for _, order := range appCtx.Orders.State().Orders {
				fmt.Fprintf(table, "%s\t%s\t%d\t%s\t%s\n",
					order.ID, order.Status, len(order.Items), cart.FormatAmount(order.Total), order.CreatedAt.Local().Format("2006-01-02 15:04"))
			}
			return table.Flush()
		},
	}

	var addressID string
	place := &cobra.Command{
		Use:   "place",
		Short: "Check out the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := addressID
			if target == "" {
				if err := appCtx.Address.Sync(cmd.Context()); err != nil {
					return err
				}
				address, ok := appCtx.Address.State().Default()
				if !ok {
					return fmt.Errorf("no delivery address; run `bahari address add` first")
				}
				target = address.ID
			}

			order, err := appCtx.Orders.Place(cmd.Context(), target)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order %s placed: %s (%s)\n", order.ID, cart.FormatAmount(order.Total), order.Status)
			return nil
		},
	}
	place.Flags().StringVar(&addressID, "address", "", "delivery address ID (defaults to the default address)")

	cmd.AddCommand(place)
	return cmd
}
