package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rpattn/apiconf/internal/export"
)

var exportFile string

var exportCmd = &cobra.Command{
	Use:   "export [class...]",
	Short: "Write completed configuration to an xlsx workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			results, err := buildResults(cmd, a, args)
			if err != nil {
				return err
			}

			f, err := os.Create(exportFile)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", exportFile, err)
			}
			if err := export.WriteWorkbook(f, results...); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d classes to %s\n", len(results), exportFile)
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFile, "file", "f", "entities.xlsx", "workbook to write")
}
