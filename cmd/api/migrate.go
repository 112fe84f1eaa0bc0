package main

import (
	"errors"

	pg "backoffice-api/internal/adapters/storage/postgres"

	"github.com/spf13/cobra"
)

func migrateCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica el schema de Postgres (idempotente)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			if cfg.Database.DSN == "" {
				return errors.New("DB_DSN not set")
			}

			db, err := pg.Open(cfg.Database.DSN)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := pg.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			log.Info("migrations applied", nil)
			return nil
		},
	}
}
