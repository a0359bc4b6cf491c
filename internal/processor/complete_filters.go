package processor

import (
	"maps"

	"go.uber.org/zap"

	"github.com/rpattn/apiconf/internal/domain"
	"github.com/rpattn/apiconf/internal/metadata"
)

// CompleteFilters fills the filters of an entity from its indexed fields and
// associations, its extended associations and the metadata of pre-configured
// filters. Attributes already set on a filter always win over inferred ones.
type CompleteFilters struct {
	oracle              metadata.Oracle
	associationDataType string
}

// CompleteFiltersOption customises CompleteFilters.
type CompleteFiltersOption func(*CompleteFilters)

// WithAssociationDataType sets the data type given to extended association
// filters that do not declare one. Defaults to integer.
func WithAssociationDataType(dataType string) CompleteFiltersOption {
	return func(p *CompleteFilters) {
		p.associationDataType = dataType
	}
}

// NewCompleteFilters creates the processor.
func NewCompleteFilters(oracle metadata.Oracle, opts ...CompleteFiltersOption) *CompleteFilters {
	p := &CompleteFilters{
		oracle:              oracle,
		associationDataType: domain.DataTypeInteger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *CompleteFilters) Process(c *Context) {
	if c.Filters == nil {
		c.Filters = domain.NewFiltersConfig()
	}
	filters := c.Filters
	if filters.IsExcludeAll() {
		// already completed
		return
	}

	if !p.oracle.IsManageableEntityClass(c.ClassName) {
		filters.SetExcludeAll()
		return
	}

	logger := c.logger().With(zap.String("class", c.ClassName))
	definition := c.definition()
	md := p.oracle.EntityMetadataForClass(c.ClassName)

	completeIndexedFilters(filters, resolveFieldNames(definition, p.oracle.IndexedFields(md)))
	completeIndexedFilters(filters, resolveFieldNames(definition, p.oracle.IndexedAssociations(md)))
	p.completeExtendedAssociationFilters(filters, definition, c.ClassName, logger)
	completePreConfiguredFilters(filters, definition, md)
	excludeFilters(filters, definition)

	for _, name := range filters.FieldNames() {
		filter, _ := filters.Field(name)
		if !filter.IsExcluded() && !filter.HasDataType() {
			logger.Warn("Filter data type cannot be resolved", zap.String("field", name))
		}
	}

	filters.SetExcludeAll()
}

func completeIndexedFilters(filters *domain.FiltersConfig, fields map[string]string) {
	for _, name := range sortedNames(fields) {
		filter := filters.GetOrAddField(name)
		if !filter.HasDataType() {
			filter.DataType = fields[name]
		}
		if !filter.HasArrayAllowed() {
			filter.SetArrayAllowed(true)
		}
	}
}

func (p *CompleteFilters) completeExtendedAssociationFilters(
	filters *domain.FiltersConfig,
	definition *domain.EntityConfig,
	className string,
	logger *zap.Logger,
) {
	for _, name := range definition.FieldNames() {
		field, _ := definition.Field(name)
		if !domain.IsExtendedAssociation(field.DataType) {
			continue
		}

		associationType, associationKind, err := domain.ParseExtendedAssociation(field.DataType)
		if err != nil {
			logger.Warn("Skipping extended association filter", zap.String("field", name), zap.Error(err))
			continue
		}

		filter := filters.GetOrAddField(name)
		if !filter.HasType() {
			filter.Type = domain.DataTypeAssociation
		}
		if !filter.HasDataType() {
			filter.DataType = p.associationDataType
		}
		if !filter.HasArrayAllowed() {
			filter.SetArrayAllowed(true)
		}

		options := maps.Clone(filter.Options)
		if options == nil {
			options = make(map[string]any, 3)
		}
		options[domain.OptionAssociationOwnerClass] = className
		options[domain.OptionAssociationType] = associationType
		if associationKind != "" {
			options[domain.OptionAssociationKind] = associationKind
		} else {
			options[domain.OptionAssociationKind] = nil
		}
		filter.Options = options
	}
}

// completePreConfiguredFilters resolves the data type of declared filters that
// still lack one, looking up the filter's property path, then the entity
// field's property path, then the filter name.
func completePreConfiguredFilters(filters *domain.FiltersConfig, definition *domain.EntityConfig, md metadata.Metadata) {
	for _, name := range filters.FieldNames() {
		filter, _ := filters.Field(name)
		if !filter.HasDataType() && md != nil {
			propertyPath := filter.PropertyPath
			if propertyPath == "" {
				propertyPath = name
				if field, ok := definition.Field(name); ok {
					propertyPath = field.PropertyPathOr(name)
				}
			}
			if md.HasField(propertyPath) {
				filter.DataType = md.TypeOfField(propertyPath)
			}
		}
		if filter.HasDataType() && !filter.HasArrayAllowed() {
			filter.SetArrayAllowed(true)
		}
	}
}

func excludeFilters(filters *domain.FiltersConfig, definition *domain.EntityConfig) {
	for _, name := range definition.FieldNames() {
		field, _ := definition.Field(name)
		if !field.IsExcluded() {
			continue
		}
		if filter, ok := filters.Field(name); ok {
			filter.SetExcluded(true)
		}
	}
}
