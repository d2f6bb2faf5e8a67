package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "publisher.hcl")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
postgres {
  host   = "localhost"
  port   = 5433
  user   = "publisher"
  dbname = "manuals"
}

publishing_api {
  base_url        = "https://publishing-api.example"
  bearer_token    = "secret"
  timeout_seconds = 10
}

organisations_api {
  base_url = "https://orgs.example"
}

search {
  provider = "meilisearch"

  meilisearch {
    host       = "http://localhost:7700"
    index_name = "manuals"
  }
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	dbCfg := cfg.DatabaseConfig()
	assert.Equal(t, "localhost", dbCfg.Host)
	assert.Equal(t, 5433, dbCfg.Port)
	assert.Equal(t, "disable", dbCfg.SSLMode, "sslmode defaults to disable")

	apiCfg := cfg.PublishingClientConfig()
	assert.Equal(t, "https://publishing-api.example", apiCfg.BaseURL)
	assert.Equal(t, 10*time.Second, apiCfg.Timeout)

	require.NotNil(t, cfg.Search.Meilisearch)
	assert.Equal(t, "manuals", cfg.Search.Meilisearch.IndexName)
}

func TestLoadDefaultsPostgresPort(t *testing.T) {
	path := writeConfig(t, `
postgres {
  host   = "db.internal"
  user   = "publisher"
  dbname = "manuals"
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5432, cfg.DatabaseConfig().Port)
}

func TestValidateAccumulatesErrors(t *testing.T) {
	cfg := &Config{
		Postgres: &PostgresConfig{},
		Search:   &SearchConfig{Provider: "elasticsearch"},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres.host is required")
	assert.Contains(t, err.Error(), "postgres.dbname is required")
	assert.Contains(t, err.Error(), `unknown search provider "elasticsearch"`)
}

func TestValidateRequiresProviderBlock(t *testing.T) {
	cfg := &Config{
		Postgres: &PostgresConfig{Host: "localhost", DBName: "manuals"},
		Search:   &SearchConfig{Provider: "algolia"},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search.algolia block is required")
}

func TestNewSearchAdapterBleve(t *testing.T) {
	cfg := &Config{
		Search: &SearchConfig{
			Provider: "bleve",
			Bleve:    &BleveConfig{Path: t.TempDir()},
		},
	}

	adapter, err := cfg.NewSearchAdapter()
	require.NoError(t, err)
	require.NotNil(t, adapter)
}
