package domain

// Reserved keys of the configuration trees.
const (
	KeyExclusionPolicy = "exclusion_policy"
	KeyDescription     = "description"
	KeyFields          = "fields"
	KeyFilters         = "filters"
	KeySorters         = "sorters"
	KeyExclude         = "exclude"
	KeyDataType        = "data_type"
	KeyPropertyPath    = "property_path"
	KeyTargetClass     = "target_class"
	KeyTargetType      = "target_type"
	KeyAllowArray      = "allow_array"
	KeyAllowRange      = "allow_range"
	KeyCollection      = "collection"
	KeyType            = "type"
	KeyOptions         = "options"
	KeyOperators       = "operators"
)

// ExclusionPolicy controls the visibility of fields that are not listed in a config.
type ExclusionPolicy string

const (
	// ExclusionPolicyNone exposes unlisted fields.
	ExclusionPolicyNone ExclusionPolicy = "none"
	// ExclusionPolicyAll hides unlisted fields. Filters and sorters configs with this
	// policy are considered completed.
	ExclusionPolicyAll ExclusionPolicy = "all"
)

// Valid reports whether p is a known policy or unset.
func (p ExclusionPolicy) Valid() bool {
	switch p {
	case "", ExclusionPolicyNone, ExclusionPolicyAll:
		return true
	default:
		return false
	}
}

// Bool returns a pointer to v, for tri-state attributes.
func Bool(v bool) *bool {
	return &v
}

func isTrue(v *bool) bool {
	return v != nil && *v
}

func cloneBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	return Bool(*v)
}
