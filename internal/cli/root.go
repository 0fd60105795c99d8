// Package cli implements the presencectl command tree.
package cli

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"realm-presence/internal/app"
)

// Env carries what the commands need from main.
type Env struct {
	Out         io.Writer
	Logger      *logrus.Logger
	OffsetHours float64
	OpenStore   func(ctx context.Context) (*app.Store, error)
}

func NewRootCommand(env *Env) *cobra.Command {
	root := &cobra.Command{
		Use:           "presencectl",
		Short:         "Manage credentials and presence records",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(env.Out)
	root.SetErr(env.Out)

	root.AddCommand(
		newCredentialCommand(env),
		newPresenceCommand(env),
		newTimestampCommand(env),
	)
	return root
}

// withStore opens the store for the duration of fn.
func withStore(cmd *cobra.Command, env *Env, fn func(store *app.Store) error) error {
	store, err := env.OpenStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}
