package domain

// SorterFieldConfig is the sorter definition exposed for one field.
type SorterFieldConfig struct {
	Exclude      *bool
	PropertyPath string
}

// IsExcluded reports whether the sorter is explicitly excluded.
func (f *SorterFieldConfig) IsExcluded() bool {
	return isTrue(f.Exclude)
}

// SetExcluded sets the exclude flag.
func (f *SorterFieldConfig) SetExcluded(excluded bool) {
	f.Exclude = Bool(excluded)
}

// Clone returns a deep copy.
func (f *SorterFieldConfig) Clone() *SorterFieldConfig {
	return &SorterFieldConfig{Exclude: cloneBool(f.Exclude), PropertyPath: f.PropertyPath}
}

// ToMap renders the sorter as a configuration tree; empty sorters render as nil.
func (f *SorterFieldConfig) ToMap() map[string]any {
	out := map[string]any{}
	if f.IsExcluded() {
		out[KeyExclude] = true
	}
	if f.PropertyPath != "" {
		out[KeyPropertyPath] = f.PropertyPath
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortersConfig holds the sorters exposed for an entity.
type SortersConfig struct {
	ExclusionPolicy ExclusionPolicy

	fields fieldSet[SorterFieldConfig]
}

// NewSortersConfig creates an empty sorters config.
func NewSortersConfig() *SortersConfig {
	return &SortersConfig{}
}

func (c *SortersConfig) IsExcludeAll() bool {
	return c.ExclusionPolicy == ExclusionPolicyAll
}

func (c *SortersConfig) SetExcludeAll() {
	c.ExclusionPolicy = ExclusionPolicyAll
}

func (c *SortersConfig) Field(name string) (*SorterFieldConfig, bool) {
	return c.fields.get(name)
}

func (c *SortersConfig) GetOrAddField(name string) *SorterFieldConfig {
	return c.fields.getOrAdd(name)
}

func (c *SortersConfig) AddField(name string, field *SorterFieldConfig) {
	c.fields.set(name, field)
}

func (c *SortersConfig) FieldNames() []string {
	return c.fields.list()
}

func (c *SortersConfig) Clone() *SortersConfig {
	return &SortersConfig{
		ExclusionPolicy: c.ExclusionPolicy,
		fields:          c.fields.clone((*SorterFieldConfig).Clone),
	}
}

// ToMap renders the sorters as a configuration tree.
func (c *SortersConfig) ToMap() map[string]any {
	out := map[string]any{}
	if c.ExclusionPolicy != "" {
		out[KeyExclusionPolicy] = string(c.ExclusionPolicy)
	}
	if fields := c.fields.toMap((*SorterFieldConfig).ToMap); fields != nil {
		out[KeyFields] = fields
	}
	return out
}
