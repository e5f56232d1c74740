package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_AllocationDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 8083

[database]
host = "localhost"

[allocation]
organisation_id = 1
timezone = "Europe/London"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Allocation.AdvanceDays)
	assert.Equal(t, 3, cfg.Allocation.MaxAttempts)
	assert.Equal(t, 30, cfg.Allocation.TickSeconds)
	assert.Equal(t, 45, cfg.Allocation.CollectMinutes)
}

func TestLoad_ExplicitAdvanceDays(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 8083

[database]
host = "localhost"

[allocation]
organisation_id = 1
timezone = "Europe/London"
advance_days = 14
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 14, cfg.Allocation.AdvanceDays)
}

func TestLoad_RequiresTimezone(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 8083

[database]
host = "localhost"

[allocation]
organisation_id = 1
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "allocation.timezone")
}

func TestDatabaseConfigDSN(t *testing.T) {
	db := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "courtbook",
		Password: "secret",
		DBName:   "booking_engine",
		SSLMode:  "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=courtbook password=secret dbname=booking_engine sslmode=disable",
		db.DSN(),
	)
}
