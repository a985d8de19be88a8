package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtroode/keepsake-server/internal/repository/postgres"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long:  `Applies the embedded goose migrations to the Postgres database in DATABASE_DSN.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.logger.Info("applying migrations")
			if err := postgres.Migrate(cmd.Context(), a.cfg.Database.DSN); err != nil {
				return fmt.Errorf("failed to migrate: %w", err)
			}
			a.logger.Info("migrations applied")
			return nil
		},
	}
}
