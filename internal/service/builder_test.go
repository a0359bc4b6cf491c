package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rpattn/apiconf/internal/apiconfig"
	"github.com/rpattn/apiconf/internal/metadata"
)

const productMetadata = `
classes:
  Product:
    identifiers: [id]
    fields:
      id: {type: integer, indexed: true}
      sku: {type: string, indexed: true}
      price: {type: decimal}
      createdAt: {type: datetime, indexed: true}
    associations:
      owner: {target_class: User, identifier_type: integer, indexed: true}
      tags: {target_class: Tag, identifier_type: integer, collection: true}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func parseYAML(t *testing.T, src string) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(src), &out))
	return out
}

func newRegistry(t *testing.T) *metadata.Registry {
	t.Helper()
	registry, err := metadata.ParseRegistry([]byte(productMetadata))
	require.NoError(t, err)
	return registry
}

func TestBuilder_Build(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "10-product.yml", `
entities:
  Product:
    exclusion_policy: all
    fields:
      id: ~
      code: {property_path: sku}
      price: {exclude: true}
      owner: ~
      category: {data_type: "association:manyToOne:category"}
`)
	writeFile(t, dir, "20-product-filters.yml", `
entities:
  Product:
    filters:
      fields:
        price: {data_type: decimal}
        category: {options: {visible: true}}
`)
	source, err := NewFileSource(dir)
	require.NoError(t, err)

	result, err := NewBuilder(source, newRegistry(t)).Build(context.Background(), "Product")
	require.NoError(t, err)

	want := parseYAML(t, `
class: Product
definition:
  exclusion_policy: all
  fields:
    id: ~
    code: {property_path: sku}
    price: {exclude: true}
    owner: ~
    category: {data_type: "association:manyToOne:category"}
filters:
  exclusion_policy: all
  fields:
    id: {data_type: integer, allow_array: true}
    code: {data_type: string, allow_array: true}
    price: {exclude: true, data_type: decimal, allow_array: true}
    owner: {data_type: integer, allow_array: true}
    category:
      type: association
      data_type: integer
      allow_array: true
      options: {visible: true, associationOwnerClass: Product, associationType: manyToOne, associationKind: category}
sorters:
  exclusion_policy: all
  fields:
    id: ~
    code: ~
    owner: ~
`)
	if diff := cmp.Diff(want, result.ToMap()); diff != "" {
		t.Fatalf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestBuilder_BuildExposesUnlistedFields(t *testing.T) {
	source := NewDocumentSource(apiconfig.Document{"Product": {}})

	result, err := NewBuilder(source, newRegistry(t)).Build(context.Background(), "Product")
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{"createdAt", "id", "price", "sku", "owner", "tags"},
		result.Definition.FieldNames())
	assert.ElementsMatch(t, []string{"createdAt", "id", "sku", "owner"}, result.Filters.FieldNames())
}

func TestBuilder_UnknownClass(t *testing.T) {
	builder := NewBuilder(NewDocumentSource(nil), newRegistry(t))

	_, err := builder.Build(context.Background(), "Missing")
	assert.ErrorIs(t, err, ErrEntityNotConfigured)
}

func TestBuilder_ClassWithoutMetadata(t *testing.T) {
	source := NewDocumentSource(apiconfig.Document{
		"Report": {"fields": map[string]any{"title": nil}},
	})

	result, err := NewBuilder(source, nil).Build(context.Background(), "Report")
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"exclusion_policy": "all"}, result.Filters.ToMap())
	assert.Equal(t, map[string]any{"exclusion_policy": "all"}, result.Sorters.ToMap())
	assert.Equal(t, []string{"title"}, result.Definition.FieldNames())
}

func TestBuilder_InvalidConfiguration(t *testing.T) {
	tests := map[string]map[string]any{
		"unknown option": {"fields": map[string]any{"id": map[string]any{"unknown": true}}},
		"duplicate property path": {"fields": map[string]any{
			"a": map[string]any{"property_path": "sku"},
			"b": map[string]any{"property_path": "sku"},
		}},
		"malformed association": {"fields": map[string]any{"a": map[string]any{"data_type": "association:"}}},
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			source := NewDocumentSource(apiconfig.Document{"Product": raw})

			_, err := NewBuilder(source, newRegistry(t)).Build(context.Background(), "Product")
			assert.ErrorIs(t, err, apiconfig.ErrInvalidConfig)
		})
	}
}

type failingProvider struct{ err error }

func (p failingProvider) ClassMetadata(context.Context, string) (*metadata.ClassMetadata, error) {
	return nil, p.err
}

func TestBuilder_MetadataErrors(t *testing.T) {
	boom := errors.New("catalog unavailable")
	source := NewDocumentSource(apiconfig.Document{"Product": {}})

	_, err := NewBuilder(source, failingProvider{err: boom}).Build(context.Background(), "Product")
	assert.ErrorIs(t, err, boom)
}

func TestBuilder_PrefersRequestLoader(t *testing.T) {
	source := NewDocumentSource(apiconfig.Document{"Product": {}})
	loader := metadata.NewLoader(newRegistry(t), 0)
	ctx := metadata.WithLoader(context.Background(), loader)

	result, err := NewBuilder(source, failingProvider{err: errors.New("unused")}).Build(ctx, "Product")
	require.NoError(t, err)
	assert.Contains(t, result.Filters.FieldNames(), "sku")
}

func TestBuilder_BuildAll(t *testing.T) {
	source := NewDocumentSource(apiconfig.Document{
		"Product": {},
		"Report":  {},
	})

	results, err := NewBuilder(source, newRegistry(t)).BuildAll(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Product", results[0].Class)
	assert.Equal(t, "Report", results[1].Class)
}

type countingSource struct {
	mu      sync.Mutex
	batches [][]string
	source  metadata.BatchSource
	err     error
}

func (s *countingSource) LoadClasses(ctx context.Context, classes []string) (map[string]*metadata.ClassMetadata, error) {
	s.mu.Lock()
	batch := append([]string(nil), classes...)
	sort.Strings(batch)
	s.batches = append(s.batches, batch)
	s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	return s.source.LoadClasses(ctx, classes)
}

func TestBuilder_BuildAllLoadsMetadataInOneBatch(t *testing.T) {
	source := NewDocumentSource(apiconfig.Document{
		"A":       {},
		"B":       {},
		"C":       {},
		"Product": {},
	})
	counting := &countingSource{source: newRegistry(t)}
	loader := metadata.NewLoader(counting, 20*time.Millisecond)

	results, err := NewBuilder(source, loader).BuildAll(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.Contains(t, results[3].Filters.FieldNames(), "sku")

	assert.Equal(t, [][]string{{"A", "B", "C", "Product"}}, counting.batches)
}

func TestBuilder_PrefetchUsesRequestLoader(t *testing.T) {
	counting := &countingSource{source: newRegistry(t)}
	ctx := metadata.WithLoader(context.Background(), metadata.NewLoader(counting, 5*time.Millisecond))
	builder := NewBuilder(NewDocumentSource(apiconfig.Document{"Product": {}, "Report": {}}), nil)

	require.NoError(t, builder.Prefetch(ctx, "Product", "Report"))
	for _, class := range []string{"Product", "Report"} {
		_, err := builder.Build(ctx, class)
		require.NoError(t, err)
	}
	assert.Len(t, counting.batches, 1)
}

func TestBuilder_BuildAllReportsBatchErrors(t *testing.T) {
	boom := errors.New("catalog unavailable")
	loader := metadata.NewLoader(&countingSource{err: boom}, time.Millisecond)
	source := NewDocumentSource(apiconfig.Document{"Product": {}, "Report": {}})

	_, err := NewBuilder(source, loader).BuildAll(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestNewFileSource_MissingPath(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
