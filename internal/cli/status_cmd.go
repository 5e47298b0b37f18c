package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	domainsession "github.com/oressource/auth-client-go/internal/domain/session"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the cached session and authorization answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			out := cmd.OutOrStdout()
			state := a.store.Snapshot()

			if !a.oracle.IsAuthenticated() {
				fmt.Fprintln(out, "No authenticated session")
				if a.store.Credential() != "" {
					fmt.Fprintln(out, "A cached credential exists but no identity is cached")
				}
				return nil
			}

			identity := state.Identity
			fmt.Fprintf(out, "User:        %s %s <%s>\n", identity.FirstName, identity.LastName, identity.Email)
			fmt.Fprintf(out, "Role:        %s\n", identity.Role)
			fmt.Fprintf(out, "Status:      %s (active=%t)\n", identity.Status, identity.Active)
			fmt.Fprintf(out, "Admin:       %t\n", a.oracle.IsAdministrator())
			fmt.Fprintf(out, "Cash:        %t (%s)\n", a.oracle.HasCashAccess(), domainsession.PermissionCash)
			fmt.Fprintf(out, "Reception:   %t (%s)\n", a.oracle.HasReceptionAccess(), domainsession.PermissionReception)
			fmt.Fprintf(out, "Permissions: %d cached\n", len(state.Permissions))
			return nil
		},
	}
}
