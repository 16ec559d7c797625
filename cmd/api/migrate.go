package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"esekoir/internal/infrastructure/database"
	"esekoir/pkg/config"
	"esekoir/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending SQLite schema migrations",
	Long: `Apply pending SQLite schema migrations and exit. The serve command runs
them too; this is for deploy pipelines that migrate before rollout.
Firestore needs no migrations.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Backend != config.BackendSQLite {
			return fmt.Errorf("migrate only applies to the %s backend (BACKEND=%s)", config.BackendSQLite, cfg.Backend)
		}

		db, err := database.Open(cfg.SQLitePath)
		if err != nil {
			return err
		}
		defer db.Close()

		logger.Info("[migrate] %s is up to date", cfg.SQLitePath)
		return nil
	},
}
