package processor

import (
	"github.com/rpattn/apiconf/internal/domain"
	"github.com/rpattn/apiconf/internal/metadata"
)

// Association target types recorded on completed entity fields.
const (
	TargetTypeToOne  = "to-one"
	TargetTypeToMany = "to-many"
)

// CompleteDefinition lists every field of a managed class in its entity
// definition when the definition does not hide unlisted fields, then marks the
// definition completed. Declared fields are left untouched.
type CompleteDefinition struct {
	oracle metadata.Oracle
}

// NewCompleteDefinition creates the processor.
func NewCompleteDefinition(oracle metadata.Oracle) *CompleteDefinition {
	return &CompleteDefinition{oracle: oracle}
}

func (p *CompleteDefinition) Process(c *Context) {
	definition := c.definition()
	if definition.IsExcludeAll() {
		return
	}

	if p.oracle.IsManageableEntityClass(c.ClassName) {
		md := p.oracle.EntityMetadataForClass(c.ClassName)
		if describer, ok := md.(metadata.Describer); ok {
			completeFields(definition, md, describer)
		}
	}

	definition.SetExcludeAll()
}

func completeFields(definition *domain.EntityConfig, md metadata.Metadata, describer metadata.Describer) {
	for _, name := range describer.FieldNames() {
		if !isClaimed(definition, name) {
			definition.AddField(name, &domain.FieldConfig{DataType: md.TypeOfField(name)})
		}
	}
	for _, name := range describer.AssociationNames() {
		if isClaimed(definition, name) {
			continue
		}
		association, _ := describer.Association(name)
		targetType := TargetTypeToOne
		if association.Collection {
			targetType = TargetTypeToMany
		}
		definition.AddField(name, &domain.FieldConfig{
			TargetClass: association.TargetClass,
			TargetType:  targetType,
		})
	}
}

func isClaimed(definition *domain.EntityConfig, propertyPath string) bool {
	if definition.FindFieldNameByPropertyPath(propertyPath) != "" {
		return true
	}
	_, declared := definition.Field(propertyPath)
	return declared
}
