package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"realm-presence/internal/app"
	"realm-presence/internal/service"
)

func newCredentialCommand(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credential",
		Short: "Seed and list credentials",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <username>",
		Short: "Create a credential for username",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, env, func(store *app.Store) error {
				cred, err := service.NewCredentialService(store.Credentials).Register(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", cred.ID, cred.Username)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, env, func(store *app.Store) error {
				creds, err := service.NewCredentialService(store.Credentials).List(cmd.Context())
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tUSERNAME")
				for _, c := range creds {
					fmt.Fprintf(w, "%s\t%s\n", c.ID, c.Username)
				}
				return w.Flush()
			})
		},
	})

	return cmd
}
