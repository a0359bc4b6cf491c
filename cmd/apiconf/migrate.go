package main

import (
	"github.com/spf13/cobra"

	"github.com/rpattn/apiconf/internal/db"
)

var migrateSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long: `Applies the embedded migrations of the api_entity_configs table.
With --steps N, migrates N steps up (positive) or down (negative).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := db.NewMigrator(cfg.Database)
		if err != nil {
			return err
		}
		defer m.Close()
		return db.ApplyMigrations(m, migrateSteps, logger)
	},
}

func init() {
	migrateCmd.Flags().IntVar(&migrateSteps, "steps", 0, "number of steps to migrate; 0 applies all pending migrations")
}
