package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("application:\n  name: memgrid\n"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "en", cfg.Application.Lang)
	assert.Equal(t, SourceMock, cfg.Source.Kind)
	assert.Equal(t, "revenue", cfg.Source.Dataset)
	assert.Equal(t, 100, cfg.MaxSessions())

	idle, abs, err := cfg.SessionTimeouts()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, idle)
	assert.Equal(t, time.Hour, abs)
}

func TestParseExpandsEnv(t *testing.T) {
	t.Setenv("MEMGRID_PORT", "9090")
	t.Setenv("MEMGRID_DB_PASSWORD", "s3cret")

	cfg, err := Parse([]byte(`
server:
  port: ${MEMGRID_PORT}
database:
  - name: main
    host: localhost
    port: "5432"
    user: grid
    password: ${MEMGRID_DB_PASSWORD}
    database: analytics
    schema: reporting
sessions:
  idle_timeout: 90s
  abs_timeout: 2h
`))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	db, ok := cfg.DefaultDatabase()
	require.True(t, ok)
	assert.Equal(t, "postgres", db.DriverName())
	assert.Equal(t,
		"host=localhost port=5432 user=grid password=s3cret dbname=analytics sslmode=disable search_path=reporting,public",
		db.DSN())

	idle, abs, err := cfg.SessionTimeouts()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, idle)
	assert.Equal(t, 2*time.Hour, abs)
}

func TestDefaultDatabase(t *testing.T) {
	cfg := &Config{}
	_, ok := cfg.DefaultDatabase()
	assert.False(t, ok)

	cfg.Database = []Database{
		{Name: "first", Driver: "sqlite3", Database: "grid.db"},
		{Name: "second", Default: true},
	}
	db, ok := cfg.DefaultDatabase()
	require.True(t, ok)
	assert.Equal(t, "second", db.Name)

	cfg.Database[1].Default = false
	db, _ = cfg.DefaultDatabase()
	assert.Equal(t, "first", db.Name)
	assert.Equal(t, "grid.db", db.DSN())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source:\n  kind: file\n  path: records.json\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, SourceFile, cfg.Source.Kind)
	assert.Empty(t, cfg.Source.Dataset)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Parse([]byte("server: [unterminated"))
	assert.Error(t, err)
}

func TestParseSessions(t *testing.T) {
	cfg, err := Parse([]byte("sessions:\n  max: 0\n  idle_timeout: 0s\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.MaxSessions(), "explicit 0 means unlimited")
	idle, abs, err := cfg.SessionTimeouts()
	require.NoError(t, err)
	assert.Zero(t, idle)
	assert.Equal(t, time.Hour, abs)

	_, err = Parse([]byte("sessions:\n  idle_timeout: 5 minutes\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sessions.idle_timeout")

	_, err = Parse([]byte("sessions:\n  abs_timeout: -1h\n"))
	assert.Error(t, err)

	assert.Equal(t, 100, (&Config{}).MaxSessions())
}
