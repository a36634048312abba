package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadConfigLayering(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", `
db:
  host: localhost
  port: 5432
server:
  port: "8080"
`)
	writeFile(t, dir, "staging.yaml", `
db:
  host: staging-db
`)

	cfg, err := LoadConfig("staging", dir)
	require.NoError(t, err)

	db, ok := cfg["db"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "staging-db", db["host"], "env layer wins")
	assert.Equal(t, 5432, db["port"], "base keys survive the merge")

	server, ok := cfg["server"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "8080", server["port"])
}

func TestLoadConfigMissingEnvFileFallsBack(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "server:\n  port: \"8080\"\n")

	cfg, err := LoadConfig("production", dir)
	require.NoError(t, err)
	server := cfg["server"].(map[string]interface{})
	assert.Equal(t, "8080", server["port"])
}

func TestLoadConfigSecretsSubstitution(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", `
db:
  password: ${DB_PASSWORD}
jwt:
  secret: ${JWT_SECRET}
`)
	writeFile(t, dir, "secrets.env", `
# secrets for local dev
DB_PASSWORD=hunter2
JWT_SECRET="quoted-secret"
`)

	cfg, err := LoadConfig("", dir)
	require.NoError(t, err)

	db := cfg["db"].(map[string]interface{})
	assert.Equal(t, "hunter2", db["password"])
	jwt := cfg["jwt"].(map[string]interface{})
	assert.Equal(t, "quoted-secret", jwt["secret"])
}

func TestLoadConfigMissingBaseFails(t *testing.T) {
	_, err := LoadConfig("local", t.TempDir())
	assert.Error(t, err)
}

func TestLoadTyped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", `
db:
  host: localhost
  port: 5432
  user: teamflow
  name: teamflow
server:
  port: "8080"
planner:
  base_url: http://localhost:9000
  timeout_seconds: 45
runner:
  overdue_interval_seconds: 30
`)

	t.Setenv("CONFIG_ENV", "base")
	t.Setenv("SERVER_PORT", "9999")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, "9999", cfg.Server.Port, "env override wins over yaml")
	assert.Equal(t, 45, cfg.Planner.TimeoutSeconds)
	assert.Equal(t, 30, cfg.Runner.OverdueIntervalSeconds)
}

func TestGetConfigEnvDefault(t *testing.T) {
	t.Setenv("CONFIG_ENV", "")
	assert.Equal(t, "local", GetConfigEnv())
}
