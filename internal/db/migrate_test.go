package db

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeMigrator struct {
	upErr   error
	steps   []int
	version uint
}

func (m *fakeMigrator) Up() error { return m.upErr }

func (m *fakeMigrator) Steps(n int) error {
	m.steps = append(m.steps, n)
	return nil
}

func (m *fakeMigrator) Version() (uint, bool, error) { return m.version, false, nil }

func (m *fakeMigrator) Close() (error, error) { return nil, nil }

func TestApplyMigrations(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	m := &fakeMigrator{version: 1}

	require.NoError(t, ApplyMigrations(m, 0, zap.New(core)))

	entries := logs.FilterMessage("Migrations applied").All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, 1, entries[0].ContextMap()["version"])
}

func TestApplyMigrations_NoChange(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	require.NoError(t, ApplyMigrations(&fakeMigrator{upErr: migrate.ErrNoChange}, 0, zap.New(core)))
	assert.Equal(t, 1, logs.FilterMessage("Database schema is up to date").Len())
}

func TestApplyMigrations_Steps(t *testing.T) {
	m := &fakeMigrator{}

	require.NoError(t, ApplyMigrations(m, -1, zap.NewNop()))
	assert.Equal(t, []int{-1}, m.steps)
}

func TestApplyMigrations_Failure(t *testing.T) {
	boom := errors.New("boom")

	err := ApplyMigrations(&fakeMigrator{upErr: boom}, 0, zap.NewNop())
	assert.ErrorIs(t, err, boom)
}

func TestConfigURL(t *testing.T) {
	cfg := Config{Host: "db", Port: 5433, User: "api", Password: "p@ss", DBName: "configs", SSLMode: "disable"}

	assert.Equal(t, "pgx5://api:p%40ss@db:5433/configs?sslmode=disable", cfg.URL("pgx5"))
	assert.Equal(t, "host=db port=5433 user=api password=p@ss dbname=configs sslmode=disable", cfg.DSN())
}

func TestMigrationsAreEmbedded(t *testing.T) {
	entries, err := migrations.ReadDir("migrations")
	require.NoError(t, err)

	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	assert.Contains(t, names, "0001_api_entity_configs.up.sql")
	assert.Contains(t, names, "0001_api_entity_configs.down.sql")
}
