// Package export renders completed entity configuration as spreadsheets.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rpattn/apiconf/internal/domain"
	"github.com/rpattn/apiconf/internal/service"
)

// Sheet names of the generated workbook.
const (
	SheetFields  = "Fields"
	SheetFilters = "Filters"
	SheetSorters = "Sorters"
)

var (
	fieldsHeader  = []string{"Class", "Field", "Data type", "Property path", "Target class", "Target type", "Excluded"}
	filtersHeader = []string{"Class", "Filter", "Data type", "Type", "Property path", "Allow array", "Allow range", "Collection", "Excluded", "Operators", "Options"}
	sortersHeader = []string{"Class", "Sorter", "Property path", "Excluded"}
)

// WriteWorkbook writes one xlsx workbook describing the fields, filters and
// sorters of every result, one row per field.
func WriteWorkbook(w io.Writer, results ...*service.Result) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetFields); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{SheetFilters, SheetSorters} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	sheets := map[string][][]string{
		SheetFields:  {fieldsHeader},
		SheetFilters: {filtersHeader},
		SheetSorters: {sortersHeader},
	}
	for _, result := range results {
		sheets[SheetFields] = append(sheets[SheetFields], fieldRows(result)...)
		sheets[SheetFilters] = append(sheets[SheetFilters], filterRows(result)...)
		sheets[SheetSorters] = append(sheets[SheetSorters], sorterRows(result)...)
	}

	for _, name := range []string{SheetFields, SheetFilters, SheetSorters} {
		if err := writeRows(f, name, sheets[name]); err != nil {
			return err
		}
		if err := f.SetRowStyle(name, 1, 1, headerStyle); err != nil {
			return fmt.Errorf("failed to style %s header: %w", name, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]string) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func fieldRows(result *service.Result) [][]string {
	if result.Definition == nil {
		return nil
	}
	var rows [][]string
	for _, name := range result.Definition.FieldNames() {
		field, _ := result.Definition.Field(name)
		rows = append(rows, []string{
			result.Class,
			name,
			field.DataType,
			field.PropertyPath,
			field.TargetClass,
			field.TargetType,
			flag(field.Exclude),
		})
	}
	return rows
}

func filterRows(result *service.Result) [][]string {
	if result.Filters == nil {
		return nil
	}
	var rows [][]string
	for _, name := range result.Filters.FieldNames() {
		filter, _ := result.Filters.Field(name)
		rows = append(rows, []string{
			result.Class,
			name,
			filter.DataType,
			filter.Type,
			filter.PropertyPath,
			flag(filter.AllowArray),
			flag(filter.AllowRange),
			flag(filter.Collection),
			flag(filter.Exclude),
			strings.Join(filter.Operators, ", "),
			options(filter),
		})
	}
	return rows
}

func sorterRows(result *service.Result) [][]string {
	if result.Sorters == nil {
		return nil
	}
	var rows [][]string
	for _, name := range result.Sorters.FieldNames() {
		sorter, _ := result.Sorters.Field(name)
		rows = append(rows, []string{result.Class, name, sorter.PropertyPath, flag(sorter.Exclude)})
	}
	return rows
}

func flag(v *bool) string {
	if v != nil && *v {
		return "yes"
	}
	return ""
}

func options(filter *domain.FilterFieldConfig) string {
	if len(filter.Options) == 0 {
		return ""
	}
	// json.Marshal sorts map keys.
	out, err := json.Marshal(filter.Options)
	if err != nil {
		return fmt.Sprint(filter.Options)
	}
	return string(out)
}
