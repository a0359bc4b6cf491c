package processor

import (
	"github.com/rpattn/apiconf/internal/domain"
	"github.com/rpattn/apiconf/internal/metadata"
)

// CompleteSorters exposes indexed fields and indexed associations of an entity
// as sorters. Sorters of excluded fields are kept but flagged excluded.
type CompleteSorters struct {
	oracle metadata.Oracle
}

// NewCompleteSorters creates the processor.
func NewCompleteSorters(oracle metadata.Oracle) *CompleteSorters {
	return &CompleteSorters{oracle: oracle}
}

func (p *CompleteSorters) Process(c *Context) {
	if c.Sorters == nil {
		c.Sorters = domain.NewSortersConfig()
	}
	sorters := c.Sorters
	if sorters.IsExcludeAll() {
		return
	}

	if !p.oracle.IsManageableEntityClass(c.ClassName) {
		sorters.SetExcludeAll()
		return
	}

	definition := c.definition()
	md := p.oracle.EntityMetadataForClass(c.ClassName)

	sortable := resolveFieldNames(definition, p.oracle.IndexedFields(md))
	for name, dataType := range resolveFieldNames(definition, p.oracle.IndexedAssociations(md)) {
		sortable[name] = dataType
	}
	for _, name := range sortedNames(sortable) {
		sorters.GetOrAddField(name)
	}

	for _, name := range definition.FieldNames() {
		field, _ := definition.Field(name)
		if !field.IsExcluded() {
			continue
		}
		if sorter, ok := sorters.Field(name); ok {
			sorter.SetExcluded(true)
		}
	}

	sorters.SetExcludeAll()
}
