package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stwalsh4118/bma/api/internal/config"
	"github.com/stwalsh4118/bma/api/internal/database"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			log := cfg.NewLogger()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			db, err := database.NewPostgresPool(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := database.Migrate(ctx, db.Conn(), log)
			if err != nil {
				return err
			}
			log.Info("Migrations complete", map[string]interface{}{
				"applied":  applied,
				"database": cfg.Database.Name,
			})
			return nil
		},
	}
}
