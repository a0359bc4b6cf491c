package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rpattn/apiconf/internal/metadata"
)

func productMetadata() *metadata.ClassMetadata {
	return &metadata.ClassMetadata{
		Class:       testClassName,
		Identifiers: []string{"id"},
		Fields: map[string]metadata.Field{
			"id":    {Type: "integer", Indexed: true},
			"sku":   {Type: "string", Indexed: true},
			"price": {Type: "decimal"},
		},
		Associations: map[string]metadata.Association{
			"owner": {TargetClass: "User", IdentifierType: "integer", Indexed: true},
			"tags":  {TargetClass: "Tag", IdentifierType: "integer", Collection: true},
		},
	}
}

func TestCompleteDefinition(t *testing.T) {
	c := NewContext(testClassName, loadEntity(t, `
fields:
  code: {property_path: sku}
  price: {exclude: true}
`), nil)

	NewCompleteDefinition(&fakeOracle{manageable: true, md: productMetadata()}).Process(c)

	assertTree(t, `
exclusion_policy: all
fields:
  code: {property_path: sku}
  price: {exclude: true}
  id: {data_type: integer}
  owner: {target_class: User, target_type: to-one}
  tags: {target_class: Tag, target_type: to-many}
`, c.Result)
}

func TestCompleteDefinition_KeepsExplicitFieldList(t *testing.T) {
	c := NewContext(testClassName, loadEntity(t, `
exclusion_policy: all
fields:
  id: ~
`), nil)
	oracle := &fakeOracle{manageable: true, md: productMetadata()}

	NewCompleteDefinition(oracle).Process(c)

	assert.Zero(t, oracle.manageableCalls)
	assertTree(t, `
exclusion_policy: all
fields:
  id: ~
`, c.Result)
}

func TestCompleteDefinition_NotManageableEntity(t *testing.T) {
	c := NewContext(testClassName, loadEntity(t, `fields: {name: ~}`), nil)

	NewCompleteDefinition(&fakeOracle{}).Process(c)

	assertTree(t, `
exclusion_policy: all
fields:
  name: ~
`, c.Result)
}

func TestChain_CompletesDefinitionBeforeFiltersAndSorters(t *testing.T) {
	md := productMetadata()
	registry := metadata.NewRegistry(md)
	c := NewContext(testClassName, loadEntity(t, `
fields:
  code: {property_path: sku}
  price: {exclude: true}
`), nil)

	Chain{
		NewCompleteDefinition(registry),
		NewCompleteFilters(registry),
		NewCompleteSorters(registry),
	}.Process(c)

	assertTree(t, `
exclusion_policy: all
fields:
  code: {data_type: string, allow_array: true}
  id: {data_type: integer, allow_array: true}
  owner: {data_type: integer, allow_array: true}
`, c.Filters)
	assertTree(t, `
exclusion_policy: all
fields:
  code: ~
  id: ~
  owner: ~
`, c.Sorters)
}
