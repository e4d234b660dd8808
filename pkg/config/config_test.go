package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresDSNOrLegacyParts(t *testing.T) {
	t.Setenv("DOHELMOTO_APP_ENV", "dev")
	t.Setenv("DOHELMOTO_JWT_SECRET", "secret")
	t.Setenv("DOHELMOTO_DB_DSN", "")
	t.Setenv("DOHELMOTO_DB_HOST", "")
	t.Setenv("DOHELMOTO_DB_USER", "")
	t.Setenv("DOHELMOTO_DB_NAME", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvDBDSN)
}

func TestLoadAssemblesLegacyDSN(t *testing.T) {
	t.Setenv("DOHELMOTO_APP_ENV", "dev")
	t.Setenv("DOHELMOTO_JWT_SECRET", "secret")
	t.Setenv("DOHELMOTO_DB_DSN", "")
	t.Setenv("DOHELMOTO_DB_HOST", "db")
	t.Setenv("DOHELMOTO_DB_USER", "dohelmoto")
	t.Setenv("DOHELMOTO_DB_PASSWORD", "dohelmoto123")
	t.Setenv("DOHELMOTO_DB_NAME", "dohelmoto")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://dohelmoto:dohelmoto123@db:5432/dohelmoto?sslmode=disable", cfg.DB.DSN)
}

func TestLoadPrefersExplicitDSN(t *testing.T) {
	t.Setenv("DOHELMOTO_APP_ENV", "prod")
	t.Setenv("DOHELMOTO_JWT_SECRET", "secret")
	t.Setenv("DOHELMOTO_DB_DSN", "postgres://u:p@host:5432/store")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@host:5432/store", cfg.DB.DSN)
	assert.True(t, cfg.App.IsProd())
	assert.False(t, cfg.App.IsDev())
}
