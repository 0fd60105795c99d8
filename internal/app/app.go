// Package app holds the wiring shared by the server and presencectl.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"

	"realm-presence/internal/config"
	"realm-presence/internal/repository"
	"realm-presence/internal/repository/postgres"
	"realm-presence/internal/repository/sqlite"
	"realm-presence/internal/storage"
)

// NewLogger builds the process logger. Unknown levels fall back to info.
func NewLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logger.Warnf("unknown log level %q, using info", level)
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// Store bundles the repositories of the configured backend.
type Store struct {
	Credentials repository.CredentialRepository
	Presence    repository.PresenceRepository
	closeFn     func() error
}

func (s *Store) Close() error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}

// OpenStore connects to the backend named by cfg.Store.Driver and prepares
// its schema.
func OpenStore(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*Store, error) {
	var store *Store
	switch cfg.Store.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		store = &Store{
			Credentials: sqlite.NewCredentialRepository(db),
			Presence:    sqlite.NewPresenceRepository(db),
			closeFn:     db.Close,
		}
		logger.Infof("using sqlite store at %s", cfg.Database.Path)

	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		store = &Store{
			Credentials: postgres.NewCredentialRepository(db),
			Presence:    postgres.NewPresenceRepository(db),
			closeFn:     db.Close,
		}
		logger.Info("using postgres store")

	case config.DriverS3:
		client, err := buildS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		opts := storage.Options{Bucket: cfg.Storage.Bucket, KeyPrefix: cfg.Storage.KeyPrefix}
		store = &Store{
			Credentials: storage.NewCredentialRepository(client, opts),
			Presence:    storage.NewPresenceRepository(client, opts),
		}
		logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	if err := store.Credentials.Init(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("init credential repository: %w", err)
	}
	if err := store.Presence.Init(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("init presence repository: %w", err)
	}
	return store, nil
}

func buildS3Client(ctx context.Context, cfg config.Config) (*s3.Client, error) {
	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}
