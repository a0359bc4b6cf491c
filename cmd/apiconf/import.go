package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpattn/apiconf/internal/db"
	"github.com/rpattn/apiconf/internal/repository"
	"github.com/rpattn/apiconf/internal/service"
)

var importCmd = &cobra.Command{
	Use:   "import <file-or-dir>...",
	Short: "Store YAML entity configuration in the database",
	Long: `Reads entity configuration files, merges them and stores one document per
class in the api_entity_configs table, replacing existing documents.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := service.NewFileSource(args...)
		if err != nil {
			return err
		}

		conn, err := db.NewConnection(cmd.Context(), cfg.Database, logger)
		if err != nil {
			return err
		}
		defer conn.Close()

		source := service.NewRepositorySource(repository.NewEntityConfigRepository(conn.Pool))
		saved, err := source.Import(cmd.Context(), files.Entities())
		if err != nil {
			return fmt.Errorf("failed to import configuration: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d classes\n", len(saved))
		return nil
	},
}
