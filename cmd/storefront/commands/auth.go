// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taibuivan/bahari/internal/market"
	"github.com/taibuivan/bahari/internal/platform/sec"
)

// register <full name> <phone>: create an account and request its first code.
func registerCmd() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "register <full-name> <phone>",
		Short: "Create an account and send a one-time code",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := market.RegisterInput{FullName: args[0], PhoneNumber: args[1], Role: sec.UserRole(role)}
			if err := appCtx.Session.Register(cmd.Context(), input); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Code sent to %s. Run `bahari verify <code>`.\n", args[1])
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", string(sec.RoleCustomer), "account role: customer, seller or transporter")
	return cmd
}

// login <phone>: request a one-time code.
func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <phone>",
		Short: "Send a one-time code to a registered phone number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.Session.RequestLogin(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Code sent to %s. Run `bahari verify <code>`.\n", args[0])
			return nil
		},
	}
}

// verify <code>: complete the pending sign-in.
func verifyCmd() *cobra.Command {
	var phone string

	cmd := &cobra.Command{
		Use:   "verify <code>",
		Short: "Verify the one-time code and sign in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.Session.VerifyOTP(cmd.Context(), phone, args[0]); err != nil {
				return err
			}

			state := appCtx.Session.State()
			name := ""
			if state.User != nil {
				name = state.User.FullName
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s. Dashboard: %s\n", name, state.Dashboard())
			return nil
		},
	}
	cmd.Flags().StringVar(&phone, "phone", "", "phone number (defaults to the pending one)")
	return cmd
}

// logout: drop the credential.
func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			appCtx.Session.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

// whoami: show the session and refresh the profile when signed in.
func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			state := appCtx.Session.State()

			if !state.IsAuthenticated {
				if state.PendingPhoneNumber != "" {
					fmt.Fprintf(out, "Waiting for the code sent to %s.\n", state.PendingPhoneNumber)
					return nil
				}
				fmt.Fprintln(out, "Not signed in.")
				return nil
			}

			if err := appCtx.Session.FetchProfile(cmd.Context()); err != nil {
				return err
			}

			user := appCtx.Session.State().User
			if user == nil {
				fmt.Fprintln(out, "Not signed in.")
				return nil
			}
			fmt.Fprintf(out, "%s (%s)\nPhone: %s\nVerified: %t\nDashboard: %s\n",
				user.FullName, user.Role, user.PhoneNumber, user.IsVerified, appCtx.Session.State().Dashboard())
			return nil
		},
	}
}
