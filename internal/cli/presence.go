package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"realm-presence/internal/app"
	"realm-presence/internal/service"
	"realm-presence/internal/timestamp"
)

func newPresenceCommand(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presence",
		Short: "Update and inspect presence records",
	}

	tracker := func(store *app.Store) service.PresenceTracker {
		return service.NewPresenceTracker(store.Credentials, store.Presence, service.TrackerConfig{
			OffsetHours: env.OffsetHours,
			Logger:      env.Logger,
		})
	}

	var active bool
	set := &cobra.Command{
		Use:   "set <username>",
		Short: "Write the presence flag for username",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, env, func(store *app.Store) error {
				out := tracker(store).SetActiveFlag(cmd.Context(), args[0], active)
				if !out.OK() {
					return fmt.Errorf("%s: %w", out.Kind, out.Err)
				}
				return printJSON(cmd, out.Presence)
			})
		},
	}
	set.Flags().BoolVar(&active, "active", true, "mark the user active (false marks inactive)")
	cmd.AddCommand(set)

	cmd.AddCommand(&cobra.Command{
		Use:   "get <userId>",
		Short: "Show the presence record of a credential id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, env, func(store *app.Store) error {
				p, err := tracker(store).GetPresence(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd, p)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List presence records, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, env, func(store *app.Store) error {
				list, err := tracker(store).ListPresence(cmd.Context())
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "USER ID\tACTIVE\tLAST ACTIVE\tUPDATED AT")
				for _, p := range list {
					fmt.Fprintf(w, "%s\t%t\t%s\t%s\n", p.UserID, p.IsActive, p.LastActive, p.UpdatedAt)
				}
				return w.Flush()
			})
		},
	})

	return cmd
}

func newTimestampCommand(env *Env) *cobra.Command {
	var offset float64
	cmd := &cobra.Command{
		Use:   "timestamp",
		Short: "Print the current time in presence record format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("offset") {
				offset = env.OffsetHours
			}
			fmt.Fprintln(cmd.OutOrStdout(), timestamp.Now(offset))
			return nil
		},
	}
	cmd.Flags().Float64Var(&offset, "offset", timestamp.DefaultOffsetHours, "offset in hours, fractions allowed")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
