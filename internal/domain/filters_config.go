package domain

import (
	"maps"
	"slices"
)

// FilterFieldConfig is the filter definition exposed for one field.
type FilterFieldConfig struct {
	Exclude      *bool
	Description  string
	PropertyPath string
	DataType     string
	AllowArray   *bool
	AllowRange   *bool
	Collection   *bool
	Type         string
	Options      map[string]any
	Operators    []string
}

// IsExcluded reports whether the filter is explicitly excluded.
func (f *FilterFieldConfig) IsExcluded() bool {
	return isTrue(f.Exclude)
}

// SetExcluded sets the exclude flag.
func (f *FilterFieldConfig) SetExcluded(excluded bool) {
	f.Exclude = Bool(excluded)
}

// HasDataType reports whether a data type is set.
func (f *FilterFieldConfig) HasDataType() bool {
	return f.DataType != ""
}

// HasType reports whether a filter type is set.
func (f *FilterFieldConfig) HasType() bool {
	return f.Type != ""
}

// HasArrayAllowed reports whether allow_array was set, to either value.
func (f *FilterFieldConfig) HasArrayAllowed() bool {
	return f.AllowArray != nil
}

// IsArrayAllowed reports whether the filter accepts several values.
func (f *FilterFieldConfig) IsArrayAllowed() bool {
	return isTrue(f.AllowArray)
}

// SetArrayAllowed sets allow_array.
func (f *FilterFieldConfig) SetArrayAllowed(allowed bool) {
	f.AllowArray = Bool(allowed)
}

// IsEmpty reports whether no attribute is set.
func (f *FilterFieldConfig) IsEmpty() bool {
	return f.Exclude == nil &&
		f.Description == "" &&
		f.PropertyPath == "" &&
		f.DataType == "" &&
		f.AllowArray == nil &&
		f.AllowRange == nil &&
		f.Collection == nil &&
		f.Type == "" &&
		len(f.Options) == 0 &&
		len(f.Operators) == 0
}

// Clone returns a deep copy. Option values are copied shallowly.
func (f *FilterFieldConfig) Clone() *FilterFieldConfig {
	c := *f
	c.Exclude = cloneBool(f.Exclude)
	c.AllowArray = cloneBool(f.AllowArray)
	c.AllowRange = cloneBool(f.AllowRange)
	c.Collection = cloneBool(f.Collection)
	c.Options = maps.Clone(f.Options)
	c.Operators = slices.Clone(f.Operators)
	return &c
}

// ToMap renders the filter as a configuration tree. False booleans and unset
// attributes are omitted; an empty filter renders as nil.
func (f *FilterFieldConfig) ToMap() map[string]any {
	out := map[string]any{}
	if f.IsExcluded() {
		out[KeyExclude] = true
	}
	if f.Description != "" {
		out[KeyDescription] = f.Description
	}
	if f.PropertyPath != "" {
		out[KeyPropertyPath] = f.PropertyPath
	}
	if f.DataType != "" {
		out[KeyDataType] = f.DataType
	}
	if f.Type != "" {
		out[KeyType] = f.Type
	}
	if isTrue(f.AllowArray) {
		out[KeyAllowArray] = true
	}
	if isTrue(f.AllowRange) {
		out[KeyAllowRange] = true
	}
	if isTrue(f.Collection) {
		out[KeyCollection] = true
	}
	if len(f.Options) > 0 {
		out[KeyOptions] = maps.Clone(f.Options)
	}
	if len(f.Operators) > 0 {
		out[KeyOperators] = slices.Clone(f.Operators)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// FiltersConfig holds the filters exposed for an entity.
type FiltersConfig struct {
	ExclusionPolicy ExclusionPolicy

	fields fieldSet[FilterFieldConfig]
}

// NewFiltersConfig creates an empty filters config.
func NewFiltersConfig() *FiltersConfig {
	return &FiltersConfig{}
}

// IsExcludeAll reports whether the filters config is completed.
func (c *FiltersConfig) IsExcludeAll() bool {
	return c.ExclusionPolicy == ExclusionPolicyAll
}

// SetExcludeAll marks the filters config completed.
func (c *FiltersConfig) SetExcludeAll() {
	c.ExclusionPolicy = ExclusionPolicyAll
}

// Field returns the named filter.
func (c *FiltersConfig) Field(name string) (*FilterFieldConfig, bool) {
	return c.fields.get(name)
}

// GetOrAddField returns the named filter, adding an empty one when missing.
func (c *FiltersConfig) GetOrAddField(name string) *FilterFieldConfig {
	return c.fields.getOrAdd(name)
}

// AddField sets the named filter.
func (c *FiltersConfig) AddField(name string, field *FilterFieldConfig) {
	c.fields.set(name, field)
}

// RemoveField deletes the named filter.
func (c *FiltersConfig) RemoveField(name string) {
	c.fields.remove(name)
}

// FieldNames returns filter names in declaration order.
func (c *FiltersConfig) FieldNames() []string {
	return c.fields.list()
}

// HasFields reports whether any filter is declared.
func (c *FiltersConfig) HasFields() bool {
	return c.fields.len() > 0
}

// Clone returns a deep copy.
func (c *FiltersConfig) Clone() *FiltersConfig {
	return &FiltersConfig{
		ExclusionPolicy: c.ExclusionPolicy,
		fields:          c.fields.clone((*FilterFieldConfig).Clone),
	}
}

// ToMap renders the filters as a configuration tree.
func (c *FiltersConfig) ToMap() map[string]any {
	out := map[string]any{}
	if c.ExclusionPolicy != "" {
		out[KeyExclusionPolicy] = string(c.ExclusionPolicy)
	}
	if fields := c.fields.toMap((*FilterFieldConfig).ToMap); fields != nil {
		out[KeyFields] = fields
	}
	return out
}
