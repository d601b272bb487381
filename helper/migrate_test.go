package helper

import (
	"net/url"
	"tasktrack/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionString(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Prefix = "dev_"
	cfg.DB.Postgres.MigrationTable = "schema_migrations"
	cfg.DB.Postgres.Write.Username = "app"
	cfg.DB.Postgres.Write.Password = "p@ss/word"
	cfg.DB.Postgres.Write.Host = "localhost"
	cfg.DB.Postgres.Write.Port = "5432"
	cfg.DB.Postgres.Write.Name = "tasktrack"
	cfg.DB.Postgres.Write.SSLMode = "disable"

	raw, err := connectionString(cfg)
	require.NoError(t, err)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	password, _ := parsed.User.Password()

	assert.Equal(t, "postgres", parsed.Scheme)
	assert.Equal(t, "p@ss/word", password)
	assert.Equal(t, "localhost:5432", parsed.Host)
	assert.Equal(t, "/dev_tasktrack", parsed.Path)
	assert.Equal(t, "disable", parsed.Query().Get("sslmode"))
	assert.Equal(t, "schema_migrations", parsed.Query().Get("x-migrations-table"))
}

func TestGetDBName(t *testing.T) {
	cfg := &config.Config{}

	assert.Equal(t, "tasktrack", getDBName(cfg, "tasktrack"))

	cfg.DB.Postgres.Prefix = "test_"
	assert.Equal(t, "test_tasktrack", getDBName(cfg, "tasktrack"))
}
