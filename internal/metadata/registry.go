package metadata

import (
	"context"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Registry is an in-memory Oracle over a fixed set of classes.
type Registry struct {
	classes map[string]*ClassMetadata
}

var (
	_ Oracle      = (*Registry)(nil)
	_ Provider    = (*Registry)(nil)
	_ BatchSource = (*Registry)(nil)
)

// NewRegistry creates a registry holding the given classes.
func NewRegistry(classes ...*ClassMetadata) *Registry {
	r := &Registry{classes: make(map[string]*ClassMetadata, len(classes))}
	for _, md := range classes {
		r.Add(md)
	}
	return r
}

// Add registers or replaces a class. Nil metadata is ignored.
func (r *Registry) Add(md *ClassMetadata) {
	if md == nil || md.Class == "" {
		return
	}
	r.classes[md.Class] = md
}

// Class returns the metadata of a registered class.
func (r *Registry) Class(class string) (*ClassMetadata, bool) {
	md, ok := r.classes[class]
	return md, ok
}

// Classes returns registered class names, sorted.
func (r *Registry) Classes() []string {
	names := make([]string, 0, len(r.classes))
	for name := range r.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) IsManageableEntityClass(class string) bool {
	_, ok := r.classes[class]
	return ok
}

func (r *Registry) EntityMetadataForClass(class string) Metadata {
	md, ok := r.classes[class]
	if !ok {
		return nil
	}
	return md
}

func (r *Registry) IndexedFields(md Metadata) map[string]string {
	if cm, ok := md.(*ClassMetadata); ok && cm != nil {
		return cm.IndexedFields()
	}
	return map[string]string{}
}

func (r *Registry) IndexedAssociations(md Metadata) map[string]string {
	if cm, ok := md.(*ClassMetadata); ok && cm != nil {
		return cm.IndexedAssociations()
	}
	return map[string]string{}
}

// ClassMetadata implements Provider.
func (r *Registry) ClassMetadata(_ context.Context, class string) (*ClassMetadata, error) {
	return r.classes[class], nil
}

// LoadClasses implements BatchSource.
func (r *Registry) LoadClasses(_ context.Context, classes []string) (map[string]*ClassMetadata, error) {
	out := make(map[string]*ClassMetadata, len(classes))
	for _, class := range classes {
		if md, ok := r.classes[class]; ok {
			out[class] = md
		}
	}
	return out, nil
}

type registryFile struct {
	Classes map[string]*ClassMetadata `yaml:"classes"`
}

// ParseRegistry builds a registry from a YAML document with a top-level
// "classes" mapping.
func ParseRegistry(data []byte) (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}

	r := NewRegistry()
	for class, md := range file.Classes {
		if md == nil {
			md = &ClassMetadata{}
		}
		md.Class = class
		r.Add(md)
	}
	return r, nil
}

// LoadRegistryFile reads a YAML metadata file.
func LoadRegistryFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file %s: %w", path, err)
	}
	return ParseRegistry(data)
}
