// Package commands holds the leedsctl subcommands.
package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"leedsbot-backend/internal/config"
	"leedsbot-backend/internal/database"
	"leedsbot-backend/internal/logger"
)

// MigrateCommand applies pending SQL migrations.
func MigrateCommand(cfg *config.Config, log *logger.Logger) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.DatabaseURL == "" {
				return errors.New("DATABASE_URL is not set")
			}

			ctx := cmd.Context()
			pool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			applied, err := database.RunMigrations(ctx, pool, dir, log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", applied)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", cfg.MigrationsDir, "Directory containing .sql migrations")
	return cmd
}
