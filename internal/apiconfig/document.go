package apiconfig

import (
	"fmt"
	"sort"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

const documentEntitiesKey = "entities"

// Document maps entity class names to their raw configuration trees.
type Document map[string]map[string]any

// Classes returns the configured class names, sorted.
func (d Document) Classes() []string {
	classes := make([]string, 0, len(d))
	for class := range d {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	return classes
}

// ParseDocument parses a YAML configuration file with a top-level "entities" mapping.
func ParseDocument(data []byte) (Document, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse configuration document: %w", err)
	}

	doc := Document{}
	if raw == nil {
		return doc, nil
	}

	for key := range raw {
		if key != documentEntitiesKey {
			return nil, newConfigError("", "unrecognized option %q, expected %q", key, documentEntitiesKey)
		}
	}

	entities, err := asMap(raw[documentEntitiesKey], documentEntitiesKey)
	if err != nil {
		return nil, err
	}
	for class, value := range entities {
		entity, err := asMap(value, joinPath(documentEntitiesKey, class))
		if err != nil {
			return nil, err
		}
		if entity == nil {
			entity = map[string]any{}
		}
		doc[class] = entity
	}
	return doc, nil
}

// MergeDocuments deep merges documents; values of later documents override
// earlier ones. The inputs are not modified.
func MergeDocuments(docs ...Document) (Document, error) {
	merged := Document{}
	for _, doc := range docs {
		for class, raw := range doc {
			dst, ok := merged[class]
			if !ok {
				dst = map[string]any{}
			}
			src, _ := cloneTree(raw).(map[string]any)
			if err := mergo.Merge(&dst, src, mergo.WithOverride); err != nil {
				return nil, fmt.Errorf("failed to merge configuration of %q: %w", class, err)
			}
			merged[class] = dst
		}
	}
	return merged, nil
}

func cloneTree(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = cloneTree(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneTree(item)
		}
		return out
	default:
		return value
	}
}
