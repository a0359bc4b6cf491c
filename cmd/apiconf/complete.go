package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rpattn/apiconf/internal/service"
)

var outputFormat string

var completeCmd = &cobra.Command{
	Use:   "complete [class...]",
	Short: "Print the completed configuration of entity classes",
	Long: `Builds the completed definition, filters and sorters of the given classes,
or of every configured class when none is given, and prints them as YAML or JSON.

Example:
  apiconf complete 'Acme\Bundle\Product' -o json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if outputFormat != "yaml" && outputFormat != "json" {
			return fmt.Errorf("unsupported output format %q", outputFormat)
		}
		return withApp(cmd.Context(), func(a *app) error {
			results, err := buildResults(cmd, a, args)
			if err != nil {
				return err
			}
			return writeResults(cmd.OutOrStdout(), outputFormat, results)
		})
	},
}

func init() {
	completeCmd.Flags().StringVarP(&outputFormat, "output", "o", "yaml", "output format: yaml or json")
}

func buildResults(cmd *cobra.Command, a *app, classes []string) ([]*service.Result, error) {
	if len(classes) == 0 {
		return a.builder.BuildAll(cmd.Context())
	}
	if err := a.builder.Prefetch(cmd.Context(), classes...); err != nil {
		return nil, err
	}
	results := make([]*service.Result, 0, len(classes))
	for _, class := range classes {
		result, err := a.builder.Build(cmd.Context(), class)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func writeResults(w io.Writer, format string, results []*service.Result) error {
	entities := make(map[string]any, len(results))
	for _, result := range results {
		tree := result.ToMap()
		delete(tree, "class")
		entities[result.Class] = tree
	}
	doc := map[string]any{"entities": entities}

	if format == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(doc)
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return err
	}
	return encoder.Close()
}
