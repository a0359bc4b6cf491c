package validator

import (
	"fmt"
	"strings"

	"github.com/rpattn/apiconf/internal/domain"
)

// ValidateEntityConfig checks an entity API definition for configuration that
// cannot be completed: malformed extended associations, blank property paths and
// property paths claimed by more than one field.
func ValidateEntityConfig(cfg *domain.EntityConfig) error {
	claimed := make(map[string]string)

	for _, name := range cfg.FieldNames() {
		field, _ := cfg.Field(name)

		if field.PropertyPath != "" && strings.TrimSpace(field.PropertyPath) == "" {
			return fmt.Errorf("field %s declares a blank property_path", name)
		}

		if domain.IsExtendedAssociation(field.DataType) {
			if _, _, err := domain.ParseExtendedAssociation(field.DataType); err != nil {
				return fmt.Errorf("field %s: %w", name, err)
			}
		}

		propertyPath := field.PropertyPathOr(name)
		if other, ok := claimed[propertyPath]; ok {
			return fmt.Errorf("field %s is not unique: property path %s is already used by field %s", name, propertyPath, other)
		}
		claimed[propertyPath] = name
	}

	return nil
}

// ValidateFiltersConfig rejects blank property paths and extended association
// data types, which only entity fields may declare.
func ValidateFiltersConfig(cfg *domain.FiltersConfig) error {
	for _, name := range cfg.FieldNames() {
		filter, _ := cfg.Field(name)
		if filter.PropertyPath != "" && strings.TrimSpace(filter.PropertyPath) == "" {
			return fmt.Errorf("filter %s declares a blank property_path", name)
		}
		if domain.IsExtendedAssociation(filter.DataType) {
			return fmt.Errorf("filter %s cannot use data type %s, declare it on the field instead", name, filter.DataType)
		}
	}
	return nil
}
