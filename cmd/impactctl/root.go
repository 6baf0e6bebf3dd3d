package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/impact-hub-backend/internal/adapter/postgres"
	"github.com/heartmarshall/impact-hub-backend/internal/app"
	"github.com/heartmarshall/impact-hub-backend/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "impactctl",
	Short:        "Operator tasks for the impact-hub backend",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $CONFIG_PATH or ./config.yaml)")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(promoteCmd)
	rootCmd.AddCommand(translationsCmd)
	rootCmd.AddCommand(indexCmd)
}

// env is what every subcommand needs: config, logger and a pool.
type env struct {
	cfg  *config.Config
	log  *slog.Logger
	pool *pgxpool.Pool
}

func (e *env) Close() { e.pool.Close() }

func openEnv(ctx context.Context) (*env, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, err
	}
	return connect(ctx, cfg)
}

func connect(ctx context.Context, cfg *config.Config) (*env, error) {
	if cfg.Database.Driver != config.DriverPostgres {
		return nil, fmt.Errorf("impactctl needs database.driver=%s (got %q)", config.DriverPostgres, cfg.Database.Driver)
	}

	logger := app.NewLogger(cfg.Log)
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: logger, pool: pool}, nil
}
