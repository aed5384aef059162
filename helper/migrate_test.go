package helper_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"etm/config"
	"etm/helper"
)

func TestConnectionString(t *testing.T) {
	cfg := config.Defaults()
	cfg.DB.Postgres.Prefix = "test_"
	cfg.DB.Postgres.Write.Host = "db"
	cfg.DB.Postgres.Write.Port = "5432"
	cfg.DB.Postgres.Write.Username = "etm"
	cfg.DB.Postgres.Write.Password = "p@ss:word"
	cfg.DB.Postgres.Write.Name = "etm"

	parsed, err := url.Parse(helper.ConnectionString(&cfg))
	require.NoError(t, err)

	password, _ := parsed.User.Password()

	assert.Equal(t, "postgres", parsed.Scheme)
	assert.Equal(t, "db:5432", parsed.Host)
	assert.Equal(t, "/test_etm", parsed.Path)
	assert.Equal(t, "etm", parsed.User.Username())
	assert.Equal(t, "p@ss:word", password)
	assert.Equal(t, "disable", parsed.Query().Get("sslmode"))
	assert.Equal(t, "schema_migrations", parsed.Query().Get("x-migrations-table"))
}

func TestRunner_UnknownAction(t *testing.T) {
	cfg := config.Defaults()
	cfg.DB.Postgres.MigrationPath = "file://does-not-exist"

	assert.Error(t, helper.Runner(&cfg, "sideways"))
}
