// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command blangoctl is the operator CLI: schema migrations, user accounts
// and API tokens.
//
// It reads DATABASE_URL and MIGRATION_PATH from the environment, like the server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/taibuivan/blango/internal/platform/constants"
	pgstore "github.com/taibuivan/blango/internal/platform/postgres"
)

// cliConfig is the subset of the server configuration the CLI needs.
type cliConfig struct {
	DatabaseURL   string `env:"DATABASE_URL,required"`
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`
	Debug         bool   `env:"DEBUG" envDefault:"false"`
}

var (
	cfg    cliConfig
	logger *slog.Logger
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "blangoctl",
	Short:         "Blango operator tools",
	Version:       constants.AppVersion,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := env.Parse(&cfg); err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}

		level := slog.LevelInfo
		if cfg.Debug {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
			With(slog.String("app", "blangoctl"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, userCmd, tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// openPool connects to Postgres for commands that need it.
func openPool(ctx context.Context) (*pgxpool.Pool, error) {
	return pgstore.NewPool(ctx, cfg.DatabaseURL, logger)
}
