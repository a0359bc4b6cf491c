// Package metadata describes persisted entity classes to the configuration
// processors: which classes are managed, their fields and types, and which
// fields and associations are indexed.
package metadata

import (
	"context"
	"sort"
)

// Metadata is a read-only handle on one managed class.
type Metadata interface {
	HasField(name string) bool
	TypeOfField(name string) string
}

// Oracle answers metadata queries for the processors. Implementations must not
// be mutated by callers.
type Oracle interface {
	IsManageableEntityClass(class string) bool
	EntityMetadataForClass(class string) Metadata
	// IndexedFields returns indexed scalar fields keyed by property path, with their data type.
	IndexedFields(md Metadata) map[string]string
	// IndexedAssociations returns indexed to-one associations keyed by property
	// path, with the data type of the target identifier.
	IndexedAssociations(md Metadata) map[string]string
}

// Provider returns the metadata of a class, or nil when the class is not managed.
type Provider interface {
	ClassMetadata(ctx context.Context, class string) (*ClassMetadata, error)
}

// Describer is implemented by metadata handles that can enumerate their members.
type Describer interface {
	FieldNames() []string
	AssociationNames() []string
	Association(name string) (Association, bool)
}

// BatchSource loads metadata for several classes at once. Unknown classes are
// absent from the result.
type BatchSource interface {
	LoadClasses(ctx context.Context, classes []string) (map[string]*ClassMetadata, error)
}

// Field describes a scalar field.
type Field struct {
	Type    string `yaml:"type" json:"type"`
	Indexed bool   `yaml:"indexed" json:"indexed"`
}

// Association describes a relation to another class.
type Association struct {
	TargetClass    string `yaml:"target_class" json:"target_class"`
	IdentifierType string `yaml:"identifier_type" json:"identifier_type"`
	Indexed        bool   `yaml:"indexed" json:"indexed"`
	Collection     bool   `yaml:"collection" json:"collection"`
}

// ClassMetadata is the materialised metadata of one class.
type ClassMetadata struct {
	Class        string                 `yaml:"-" json:"class"`
	Identifiers  []string               `yaml:"identifiers" json:"identifiers"`
	Fields       map[string]Field       `yaml:"fields" json:"fields"`
	Associations map[string]Association `yaml:"associations" json:"associations"`
}

// HasField reports whether name is a scalar field of the class.
func (m *ClassMetadata) HasField(name string) bool {
	if m == nil {
		return false
	}
	_, ok := m.Fields[name]
	return ok
}

// TypeOfField returns the data type of a scalar field, or "" when unknown.
func (m *ClassMetadata) TypeOfField(name string) string {
	if m == nil {
		return ""
	}
	return m.Fields[name].Type
}

// IsIdentifier reports whether name is part of the class identifier.
func (m *ClassMetadata) IsIdentifier(name string) bool {
	for _, id := range m.Identifiers {
		if id == name {
			return true
		}
	}
	return false
}

// IndexedFields returns indexed and identifier fields with their data types.
func (m *ClassMetadata) IndexedFields() map[string]string {
	out := make(map[string]string)
	for name, field := range m.Fields {
		if field.Type == "" {
			continue
		}
		if field.Indexed || m.IsIdentifier(name) {
			out[name] = field.Type
		}
	}
	return out
}

// IndexedAssociations returns indexed to-one associations with the data type of
// their target identifier.
func (m *ClassMetadata) IndexedAssociations() map[string]string {
	out := make(map[string]string)
	for name, association := range m.Associations {
		if association.Collection || !association.Indexed || association.IdentifierType == "" {
			continue
		}
		out[name] = association.IdentifierType
	}
	return out
}

// FieldNames returns scalar field names, sorted.
func (m *ClassMetadata) FieldNames() []string {
	names := make([]string, 0, len(m.Fields))
	for name := range m.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AssociationNames returns association names, sorted.
func (m *ClassMetadata) AssociationNames() []string {
	names := make([]string, 0, len(m.Associations))
	for name := range m.Associations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Association returns the named association.
func (m *ClassMetadata) Association(name string) (Association, bool) {
	association, ok := m.Associations[name]
	return association, ok
}
