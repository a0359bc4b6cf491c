package apiconfig

import (
	"fmt"

	"github.com/rpattn/apiconf/internal/domain"
	"github.com/rpattn/apiconf/internal/filter"
)

// ConfigType names a kind of configuration tree.
type ConfigType string

const (
	ConfigTypeEntity  ConfigType = "entity"
	ConfigTypeFilters ConfigType = "filters"
	ConfigTypeSorters ConfigType = "sorters"
)

// Config is a loaded configuration that can be rendered back to a tree.
type Config interface {
	ToMap() map[string]any
}

// Loader turns a raw configuration tree into a typed config.
type Loader interface {
	Load(raw map[string]any) (Config, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(raw map[string]any) (Config, error)

func (f LoaderFunc) Load(raw map[string]any) (Config, error) {
	return f(raw)
}

// LoaderFactory builds loaders for each configuration type.
type LoaderFactory struct {
	operators *filter.OperatorRegistry
}

// NewLoaderFactory creates a factory. A nil registry uses the default operators.
func NewLoaderFactory(operators *filter.OperatorRegistry) *LoaderFactory {
	if operators == nil {
		operators = filter.NewOperatorRegistry(filter.DefaultOperators())
	}
	return &LoaderFactory{operators: operators}
}

// Loader returns the loader registered for configType.
func (f *LoaderFactory) Loader(configType ConfigType) (Loader, error) {
	switch configType {
	case ConfigTypeEntity:
		return LoaderFunc(func(raw map[string]any) (Config, error) { return f.LoadEntity(raw) }), nil
	case ConfigTypeFilters:
		return LoaderFunc(func(raw map[string]any) (Config, error) { return f.LoadFilters(raw) }), nil
	case ConfigTypeSorters:
		return LoaderFunc(func(raw map[string]any) (Config, error) { return f.LoadSorters(raw) }), nil
	default:
		return nil, fmt.Errorf("unknown config type %q", configType)
	}
}

// LoadEntity loads an entity definition together with its filters and sorters sections.
func (f *LoaderFactory) LoadEntity(raw map[string]any) (*domain.EntityConfig, error) {
	cfg := domain.NewEntityConfig()
	for _, rawKey := range sortedKeys(raw) {
		value := raw[rawKey]
		key := normalizeKey(rawKey)
		var err error
		switch key {
		case domain.KeyExclusionPolicy:
			cfg.ExclusionPolicy, err = loadExclusionPolicy(value, key)
		case domain.KeyDescription:
			cfg.Description, err = asString(value, key)
		case domain.KeyFields:
			err = loadFields(value, key, func(name string, fieldRaw map[string]any, path string) error {
				field, err := loadEntityField(fieldRaw, path)
				if err != nil {
					return err
				}
				cfg.AddField(name, field)
				return nil
			})
		case domain.KeyFilters:
			var section map[string]any
			if section, err = asMap(value, key); err == nil && section != nil {
				cfg.Filters, err = f.loadFilters(section, key)
			}
		case domain.KeySorters:
			var section map[string]any
			if section, err = asMap(value, key); err == nil && section != nil {
				cfg.Sorters, err = f.loadSorters(section, key)
			}
		default:
			err = newConfigError("", "unrecognized option %q", rawKey)
		}
		if err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadFilters loads a standalone filters configuration.
func (f *LoaderFactory) LoadFilters(raw map[string]any) (*domain.FiltersConfig, error) {
	return f.loadFilters(raw, "")
}

// LoadSorters loads a standalone sorters configuration.
func (f *LoaderFactory) LoadSorters(raw map[string]any) (*domain.SortersConfig, error) {
	return f.loadSorters(raw, "")
}

func (f *LoaderFactory) loadFilters(raw map[string]any, path string) (*domain.FiltersConfig, error) {
	cfg := domain.NewFiltersConfig()
	for _, rawKey := range sortedKeys(raw) {
		value := raw[rawKey]
		key := normalizeKey(rawKey)
		var err error
		switch key {
		case domain.KeyExclusionPolicy:
			cfg.ExclusionPolicy, err = loadExclusionPolicy(value, joinPath(path, key))
		case domain.KeyFields:
			err = loadFields(value, joinPath(path, key), func(name string, fieldRaw map[string]any, fieldPath string) error {
				field, err := f.loadFilterField(fieldRaw, fieldPath)
				if err != nil {
					return err
				}
				cfg.AddField(name, field)
				return nil
			})
		default:
			err = newConfigError(path, "unrecognized option %q", rawKey)
		}
		if err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (f *LoaderFactory) loadSorters(raw map[string]any, path string) (*domain.SortersConfig, error) {
	cfg := domain.NewSortersConfig()
	for _, rawKey := range sortedKeys(raw) {
		value := raw[rawKey]
		key := normalizeKey(rawKey)
		var err error
		switch key {
		case domain.KeyExclusionPolicy:
			cfg.ExclusionPolicy, err = loadExclusionPolicy(value, joinPath(path, key))
		case domain.KeyFields:
			err = loadFields(value, joinPath(path, key), func(name string, fieldRaw map[string]any, fieldPath string) error {
				field, err := loadSorterField(fieldRaw, fieldPath)
				if err != nil {
					return err
				}
				cfg.AddField(name, field)
				return nil
			})
		default:
			err = newConfigError(path, "unrecognized option %q", rawKey)
		}
		if err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func loadExclusionPolicy(value any, path string) (domain.ExclusionPolicy, error) {
	s, err := asString(value, path)
	if err != nil {
		return "", err
	}
	policy := domain.ExclusionPolicy(s)
	if !policy.Valid() {
		return "", newConfigError(path, "unknown exclusion policy %q, expected %q or %q", s, domain.ExclusionPolicyAll, domain.ExclusionPolicyNone)
	}
	return policy, nil
}

func loadFields(value any, path string, add func(name string, raw map[string]any, path string) error) error {
	fields, err := asMap(value, path)
	if err != nil {
		return err
	}
	for _, name := range sortedKeys(fields) {
		fieldPath := joinPath(path, name)
		fieldRaw, err := asMap(fields[name], fieldPath)
		if err != nil {
			return err
		}
		if err := add(name, fieldRaw, fieldPath); err != nil {
			return err
		}
	}
	return nil
}

func loadEntityField(raw map[string]any, path string) (*domain.FieldConfig, error) {
	field := &domain.FieldConfig{}
	for _, rawKey := range sortedKeys(raw) {
		value := raw[rawKey]
		key := normalizeKey(rawKey)
		keyPath := joinPath(path, key)
		var err error
		switch key {
		case domain.KeyExclude:
			field.Exclude, err = asBool(value, keyPath)
		case domain.KeyDescription:
			field.Description, err = asString(value, keyPath)
		case domain.KeyDataType:
			field.DataType, err = asString(value, keyPath)
		case domain.KeyPropertyPath:
			field.PropertyPath, err = asString(value, keyPath)
		case domain.KeyTargetClass:
			field.TargetClass, err = asString(value, keyPath)
		case domain.KeyTargetType:
			field.TargetType, err = asString(value, keyPath)
		default:
			err = newConfigError(path, "unrecognized option %q", rawKey)
		}
		if err != nil {
			return nil, err
		}
	}
	return field, nil
}

func (f *LoaderFactory) loadFilterField(raw map[string]any, path string) (*domain.FilterFieldConfig, error) {
	field := &domain.FilterFieldConfig{}
	for _, rawKey := range sortedKeys(raw) {
		value := raw[rawKey]
		key := normalizeKey(rawKey)
		keyPath := joinPath(path, key)
		var err error
		switch key {
		case domain.KeyExclude:
			field.Exclude, err = asBool(value, keyPath)
		case domain.KeyDescription:
			field.Description, err = asString(value, keyPath)
		case domain.KeyPropertyPath:
			field.PropertyPath, err = asString(value, keyPath)
		case domain.KeyDataType:
			field.DataType, err = asString(value, keyPath)
		case domain.KeyAllowArray:
			field.AllowArray, err = asBool(value, keyPath)
		case domain.KeyAllowRange:
			field.AllowRange, err = asBool(value, keyPath)
		case domain.KeyCollection:
			field.Collection, err = asBool(value, keyPath)
		case domain.KeyType:
			field.Type, err = asString(value, keyPath)
		case domain.KeyOptions:
			field.Options, err = asMap(value, keyPath)
		case domain.KeyOperators:
			field.Operators, err = f.loadOperators(value, keyPath)
		default:
			err = newConfigError(path, "unrecognized option %q", rawKey)
		}
		if err != nil {
			return nil, err
		}
	}
	return field, nil
}

func (f *LoaderFactory) loadOperators(value any, path string) ([]string, error) {
	operators, err := asStringList(value, path)
	if err != nil {
		return nil, err
	}
	resolved := make([]string, 0, len(operators))
	for _, operator := range operators {
		name, ok := f.operators.ResolveOperator(operator)
		if !ok {
			return nil, newConfigError(path, "unknown operator %q, known operators: %v", operator, f.operators.Names())
		}
		resolved = append(resolved, name)
	}
	return resolved, nil
}

func loadSorterField(raw map[string]any, path string) (*domain.SorterFieldConfig, error) {
	field := &domain.SorterFieldConfig{}
	for _, rawKey := range sortedKeys(raw) {
		value := raw[rawKey]
		key := normalizeKey(rawKey)
		keyPath := joinPath(path, key)
		var err error
		switch key {
		case domain.KeyExclude:
			field.Exclude, err = asBool(value, keyPath)
		case domain.KeyPropertyPath:
			field.PropertyPath, err = asString(value, keyPath)
		default:
			err = newConfigError(path, "unrecognized option %q", rawKey)
		}
		if err != nil {
			return nil, err
		}
	}
	return field, nil
}
