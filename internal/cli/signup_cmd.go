package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newSignupCmd() *cobra.Command {
	var phone string

	cmd := &cobra.Command{
		Use:   "signup <email>",
		Short: "Create an account (pending approval)",
		Long:  "Creates an account in pending state. The new account does not authenticate until an administrator approves it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			password, err := promptSecret("Password: ")
			if err != nil {
				return err
			}
			confirm, err := promptSecret("Confirm password: ")
			if err != nil {
				return err
			}
			if password != confirm {
				return errors.New("passwords do not match")
			}

			if err := a.service.Signup(ctx, args[0], password, phone); err != nil {
				return fmt.Errorf("%s", a.service.LastError())
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Account created, awaiting approval")
			return nil
		},
	}

	cmd.Flags().StringVar(&phone, "phone", "", "Optional contact phone number")

	return cmd
}
