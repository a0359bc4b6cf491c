package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, found, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.False(t, found)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
database:
  host: db.internal
  port: 6543
http:
  addr: ":9090"
  read_timeout: 5s
configs:
  source: database
metadata:
  source: postgres
  schema: catalog
log:
  level: debug
`), 0o644))
	t.Setenv("APICONF_DATABASE_PASSWORD", "secret")
	t.Setenv("APICONF_METADATA_ASSOCIATION_DATA_TYPE", "guid")

	cfg, found, err := Load(dir)
	require.NoError(t, err)

	assert.True(t, found)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, SourceDatabase, cfg.Configs.Source)
	assert.Equal(t, SourcePostgres, cfg.Metadata.Source)
	assert.Equal(t, "catalog", cfg.Metadata.Schema)
	assert.Equal(t, "guid", cfg.Metadata.AssociationDataType)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_RejectsUnknownSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("configs:\n  source: s3\n"), 0o644))

	_, _, err := Load(dir)
	assert.ErrorContains(t, err, "configs.source")
}
