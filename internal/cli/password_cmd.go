package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Request or confirm a password reset",
	}

	cmd.AddCommand(newPasswordForgotCmd())
	cmd.AddCommand(newPasswordResetCmd())

	return cmd
}

func newPasswordForgotCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "forgot <email>",
		Short:   "Request a password reset email",
		Example: "  oressource-auth password forgot marie@ressourcerie.example",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.service.ForgotPassword(ctx, args[0]); err != nil {
				return fmt.Errorf("%s", a.service.LastError())
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Reset email requested")
			return nil
		},
	}
}

func newPasswordResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <reset-token>",
		Short: "Set a new password from a reset token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			password, err := promptSecret("New password: ")
			if err != nil {
				return err
			}

			if err := a.service.ResetPassword(ctx, args[0], password); err != nil {
				return fmt.Errorf("%s", a.service.LastError())
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password updated")
			return nil
		},
	}
}
