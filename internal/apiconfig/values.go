package apiconfig

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ettle/strcase"
)

// normalizeKey maps camel case attribute names such as propertyPath to their
// canonical snake case form.
func normalizeKey(key string) string {
	return strcase.ToSnake(strings.TrimSpace(key))
}

func asMap(value any, path string) (map[string]any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return v, nil
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = item
		}
		return out, nil
	case []any:
		// An empty list is how some encoders write an empty mapping.
		if len(v) == 0 {
			return map[string]any{}, nil
		}
	}
	return nil, newConfigError(path, "expected a mapping, got %T", value)
}

func asString(value any, path string) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	}
	return "", newConfigError(path, "expected a string, got %T", value)
}

func asBool(value any, path string) (*bool, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case bool:
		return &v, nil
	}
	return nil, newConfigError(path, "expected a boolean, got %T", value)
}

func asStringList(value any, path string) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		var out []string
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		return out, nil
	case []string:
		return append([]string(nil), v...), nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, newConfigError(fmt.Sprintf("%s[%d]", path, i), "expected a string, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, newConfigError(path, "expected a list of strings, got %T", value)
}

// sortedKeys returns map keys in a stable order; mappings decoded from YAML or
// JSON do not keep declaration order.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
