// presencectl seeds credentials and inspects presence records.
package main

import (
	"context"
	"fmt"
	"os"

	"realm-presence/internal/app"
	"realm-presence/internal/cli"
	"realm-presence/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := app.NewLogger(cfg.Log.Level)

	root := cli.NewRootCommand(&cli.Env{
		Out:         os.Stdout,
		Logger:      logger,
		OffsetHours: cfg.Presence.OffsetHours,
		OpenStore: func(ctx context.Context) (*app.Store, error) {
			return app.OpenStore(ctx, cfg, logger)
		},
	})
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
