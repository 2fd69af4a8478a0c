// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package commands

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/taibuivan/bahari/internal/cart"
)

// # Catalogue

func productsCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "products [product-id]",
		Short: "List the catalogue, or show one product",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				product, err := appCtx.API.Product(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\n%s\nPrice: %s / %s\nIn stock: %d\n",
					product.Name, product.Description, cart.FormatAmount(product.Price), product.Unit, product.Stock)
				return nil
			}

			products, err := appCtx.API.Products(cmd.Context(), category)
			if err != nil {
				return err
			}

			table := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(table, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK\tSAVED")
			for _, product := range products {
				fmt.Fprintf(table, "%s\t%s\t%s\t%s\t%d\t%s\n",
					product.ID, product.Name, product.Category, cart.FormatAmount(product.Price), product.Stock,
					mark(appCtx.Wishlist.Contains(product.ID)))
			}
			return table.Flush()
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only list this category")
	return cmd
}

// # Cart

func cartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show or change the shopping cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printCart(cmd.OutOrStdout(), appCtx.Cart.State())
		},
	}

	add := &cobra.Command{
		Use:   "add <product-id> [quantity]",
		Short: "Add a product to the cart",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity := 1
			if len(args) == 2 {
				parsed, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("quantity must be a number: %w", err)
				}
				quantity = parsed
			}

			product, err := appCtx.API.Product(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printCart(cmd.OutOrStdout(), appCtx.Cart.Add(*product, quantity))
		},
	}

	remove := &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printCart(cmd.OutOrStdout(), appCtx.Cart.Remove(args[0]))
		},
	}

	set := &cobra.Command{
		Use:   "set <product-id> <quantity>",
		Short: "Set the quantity of a cart line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity must be a number: %w", err)
			}
			return printCart(cmd.OutOrStdout(), appCtx.Cart.SetQuantity(args[0], quantity))
		},
	}

	empty := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printCart(cmd.OutOrStdout(), appCtx.Cart.Clear())
		},
	}

	cmd.AddCommand(add, remove, set, empty)
	return cmd
}

func printCart(out io.Writer, c cart.Cart) error {
	if c.IsEmpty() {
		fmt.Fprintln(out, "Cart is empty.")
		return nil
	}

	table := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(table, "PRODUCT\tNAME\tQTY\tSUBTOTAL")
	for _, line := range c.Lines {
		fmt.Fprintf(table, "%s\t%s\t%d\t%s\n", line.ProductID, line.Product.Name, line.Quantity, cart.FormatAmount(line.Subtotal()))
	}
	fmt.Fprintf(table, "\t\t%d\t%s\n", c.Count(), c.FormattedTotal())
	return table.Flush()
}

func mark(ok bool) string {
	if ok {
		return "*"
	}
	return ""
}
