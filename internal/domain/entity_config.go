package domain

// FieldConfig describes how one entity field is exposed by the API.
type FieldConfig struct {
	Exclude      *bool
	Description  string
	DataType     string
	PropertyPath string
	TargetClass  string
	TargetType   string
}

// IsExcluded reports whether the field is explicitly excluded.
func (f *FieldConfig) IsExcluded() bool {
	return isTrue(f.Exclude)
}

// SetExcluded sets the exclude flag.
func (f *FieldConfig) SetExcluded(excluded bool) {
	f.Exclude = Bool(excluded)
}

// HasDataType reports whether a data type is declared.
func (f *FieldConfig) HasDataType() bool {
	return f.DataType != ""
}

// PropertyPathOr returns the declared property path or name when none is declared.
func (f *FieldConfig) PropertyPathOr(name string) string {
	if f.PropertyPath != "" {
		return f.PropertyPath
	}
	return name
}

// IsEmpty reports whether no attribute is set.
func (f *FieldConfig) IsEmpty() bool {
	return f.Exclude == nil &&
		f.Description == "" &&
		f.DataType == "" &&
		f.PropertyPath == "" &&
		f.TargetClass == "" &&
		f.TargetType == ""
}

// Clone returns a deep copy.
func (f *FieldConfig) Clone() *FieldConfig {
	c := *f
	c.Exclude = cloneBool(f.Exclude)
	return &c
}

// ToMap renders the field as a configuration tree. Empty fields render as nil.
func (f *FieldConfig) ToMap() map[string]any {
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
	if f.TargetClass != "" {
		out[KeyTargetClass] = f.TargetClass
	}
	if f.TargetType != "" {
		out[KeyTargetType] = f.TargetType
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// EntityConfig is the API definition of an entity: its fields plus the
// filters and sorters sections declared alongside them.
type EntityConfig struct {
	ExclusionPolicy ExclusionPolicy
	Description     string
	Filters         *FiltersConfig
	Sorters         *SortersConfig

	fields fieldSet[FieldConfig]
}

// NewEntityConfig creates an empty entity config.
func NewEntityConfig() *EntityConfig {
	return &EntityConfig{}
}

// IsExcludeAll reports whether unlisted fields are hidden.
func (c *EntityConfig) IsExcludeAll() bool {
	return c.ExclusionPolicy == ExclusionPolicyAll
}

// SetExcludeAll switches the exclusion policy to all.
func (c *EntityConfig) SetExcludeAll() {
	c.ExclusionPolicy = ExclusionPolicyAll
}

// Field returns the named field config.
func (c *EntityConfig) Field(name string) (*FieldConfig, bool) {
	return c.fields.get(name)
}

// GetOrAddField returns the named field, adding an empty one when missing.
func (c *EntityConfig) GetOrAddField(name string) *FieldConfig {
	return c.fields.getOrAdd(name)
}

// AddField sets the named field, keeping its position when it already exists.
func (c *EntityConfig) AddField(name string, field *FieldConfig) {
	c.fields.set(name, field)
}

// RemoveField deletes the named field.
func (c *EntityConfig) RemoveField(name string) {
	c.fields.remove(name)
}

// FieldNames returns field names in declaration order.
func (c *EntityConfig) FieldNames() []string {
	return c.fields.list()
}

// HasFields reports whether any field is declared.
func (c *EntityConfig) HasFields() bool {
	return c.fields.len() > 0
}

// FindFieldNameByPropertyPath returns the name of the field backed by the given
// property path, or "" when no declared field maps to it. A field declaring the
// path as its property_path wins over a field named after it. Duplicate claims
// are rejected by validator.ValidateEntityConfig, which callers should run first.
func (c *EntityConfig) FindFieldNameByPropertyPath(propertyPath string) string {
	byName := ""
	for _, name := range c.fields.names {
		field := c.fields.items[name]
		if field.PropertyPath == propertyPath {
			return name
		}
		if byName == "" && field.PropertyPath == "" && name == propertyPath {
			byName = name
		}
	}
	return byName
}

// Clone returns a deep copy.
func (c *EntityConfig) Clone() *EntityConfig {
	out := &EntityConfig{
		ExclusionPolicy: c.ExclusionPolicy,
		Description:     c.Description,
		fields:          c.fields.clone((*FieldConfig).Clone),
	}
	if c.Filters != nil {
		out.Filters = c.Filters.Clone()
	}
	if c.Sorters != nil {
		out.Sorters = c.Sorters.Clone()
	}
	return out
}

// ToMap renders the entity config as a configuration tree.
func (c *EntityConfig) ToMap() map[string]any {
	out := map[string]any{}
	if c.ExclusionPolicy != "" {
		out[KeyExclusionPolicy] = string(c.ExclusionPolicy)
	}
	if c.Description != "" {
		out[KeyDescription] = c.Description
	}
	if fields := c.fields.toMap((*FieldConfig).ToMap); fields != nil {
		out[KeyFields] = fields
	}
	if c.Filters != nil {
		if filters := c.Filters.ToMap(); len(filters) > 0 {
			out[KeyFilters] = filters
		}
	}
	if c.Sorters != nil {
		if sorters := c.Sorters.ToMap(); len(sorters) > 0 {
			out[KeySorters] = sorters
		}
	}
	return out
}
