package processor

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rpattn/apiconf/internal/apiconfig"
	"github.com/rpattn/apiconf/internal/domain"
	"github.com/rpattn/apiconf/internal/metadata"
)

const testClassName = "Test\\Class"

// fakeOracle answers metadata queries from fixed maps and counts the calls it receives.
type fakeOracle struct {
	manageable   bool
	md           *metadata.ClassMetadata
	fields       map[string]string
	associations map[string]string

	manageableCalls   int
	metadataCalls     int
	fieldsCalls       int
	associationsCalls int
	handles           []metadata.Metadata
}

func (o *fakeOracle) IsManageableEntityClass(class string) bool {
	o.manageableCalls++
	return o.manageable && class == testClassName
}

func (o *fakeOracle) EntityMetadataForClass(string) metadata.Metadata {
	o.metadataCalls++
	if o.md == nil {
		o.md = &metadata.ClassMetadata{Class: testClassName}
	}
	return o.md
}

func (o *fakeOracle) IndexedFields(md metadata.Metadata) map[string]string {
	o.fieldsCalls++
	o.handles = append(o.handles, md)
	return o.fields
}

func (o *fakeOracle) IndexedAssociations(md metadata.Metadata) map[string]string {
	o.associationsCalls++
	o.handles = append(o.handles, md)
	return o.associations
}

func parseTree(t *testing.T, src string) map[string]any {
	t.Helper()
	var tree map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(src), &tree))
	if tree == nil {
		tree = map[string]any{}
	}
	return tree
}

func loadEntity(t *testing.T, src string) *domain.EntityConfig {
	t.Helper()
	cfg, err := apiconfig.NewLoaderFactory(nil).LoadEntity(parseTree(t, src))
	require.NoError(t, err)
	return cfg
}

func loadFilters(t *testing.T, src string) *domain.FiltersConfig {
	t.Helper()
	cfg, err := apiconfig.NewLoaderFactory(nil).LoadFilters(parseTree(t, src))
	require.NoError(t, err)
	return cfg
}

func loadSorters(t *testing.T, src string) *domain.SortersConfig {
	t.Helper()
	cfg, err := apiconfig.NewLoaderFactory(nil).LoadSorters(parseTree(t, src))
	require.NoError(t, err)
	return cfg
}

func assertTree(t *testing.T, want string, got apiconfig.Config) {
	t.Helper()
	if diff := cmp.Diff(parseTree(t, want), got.ToMap()); diff != "" {
		t.Fatalf("unexpected config (-want +got):\n%s", diff)
	}
}
