package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rpattn/apiconf/internal/config"
	"github.com/rpattn/apiconf/internal/db"
	"github.com/rpattn/apiconf/internal/logging"
	"github.com/rpattn/apiconf/internal/metadata"
	"github.com/rpattn/apiconf/internal/pgcatalog"
	"github.com/rpattn/apiconf/internal/repository"
	"github.com/rpattn/apiconf/internal/service"
)

var (
	configPath string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "apiconf",
	Short:         "Complete entity API configuration from class metadata",
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: `apiconf reads entity API configuration (fields, filters and sorters),
completes the filters and sorters from the metadata of each class and serves or
prints the result.

Configuration is read from config.yaml in --config and APICONF_* environment variables.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var (
			found bool
			err   error
		)
		cfg, found, err = config.Load(configPath)
		if err != nil {
			return err
		}

		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		logger, _, err = logging.New(level, cfg.Log.Development)
		if err != nil {
			return err
		}
		if !found {
			logger.Debug("No config.yaml found, using defaults and env vars")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "directory containing config.yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd, completeCmd, exportCmd, importCmd, migrateCmd)
}

// app holds the components shared by the commands.
type app struct {
	conn     *db.Connection
	source   service.Source
	metadata metadata.BatchSource
	builder  *service.Builder
}

func (a *app) Close() {
	if a.conn != nil {
		a.conn.Close()
	}
}

func (a *app) connection(ctx context.Context) (*db.Connection, error) {
	if a.conn == nil {
		conn, err := db.NewConnection(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		a.conn = conn
	}
	return a.conn, nil
}

// newApp wires configuration source, metadata and builder from cfg.
func newApp(ctx context.Context) (*app, error) {
	a := &app{}

	switch cfg.Configs.Source {
	case config.SourceDatabase:
		conn, err := a.connection(ctx)
		if err != nil {
			return nil, err
		}
		a.source = service.NewRepositorySource(repository.NewEntityConfigRepository(conn.Pool))
	default:
		source, err := service.NewFileSource(cfg.Configs.Paths...)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.source = source
	}

	switch cfg.Metadata.Source {
	case config.SourcePostgres:
		conn, err := a.connection(ctx)
		if err != nil {
			return nil, err
		}
		a.metadata = pgcatalog.New(conn.Pool, cfg.Metadata.Schema, logger)
	default:
		registry, err := metadata.LoadRegistryFile(cfg.Metadata.File)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.metadata = registry
	}

	a.builder = service.NewBuilder(
		a.source,
		metadata.NewLoader(a.metadata, cfg.Metadata.BatchWait),
		service.WithAssociationDataType(cfg.Metadata.AssociationDataType),
		service.WithLogger(logger),
	)
	return a, nil
}

func withApp(ctx context.Context, fn func(*app) error) error {
	a, err := newApp(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer a.Close()
	return fn(a)
}
