package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Authenticate and cache the session",
		Example: `  oressource-auth login marie@ressourcerie.example
  oressource-auth login marie@ressourcerie.example --password -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			secret := password
			switch secret {
			case "-":
				secret, err = readSecretLine(cmd.InOrStdin())
				if err != nil {
					return err
				}
			case "":
				secret, err = promptSecret("Password: ")
				if err != nil {
					return err
				}
			}

			result, err := a.service.Login(ctx, args[0], secret)
			if err != nil {
				if msg := a.service.LastError(); msg != "" {
					return fmt.Errorf("%s", msg)
				}
				return err
			}

			name := strings.TrimSpace(result.Identity.FirstName + " " + result.Identity.LastName)
			if name == "" {
				name = result.Identity.Email
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (role %s)\n", name, result.Identity.Role)
			if result.PermissionsDegraded {
				fmt.Fprintln(cmd.OutOrStdout(), "Warning: permissions could not be fetched; continuing with none")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", `Password ("-" reads one line from stdin; omit to be prompted without echo)`)

	return cmd
}
