// Package config loads and validates the publisher's HCL configuration.
package config

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/alphagov-forge/manuals-publisher/pkg/database"
	"github.com/alphagov-forge/manuals-publisher/pkg/publishingapi"
)

// Config is the root configuration for every publisher binary.
type Config struct {
	Postgres         *PostgresConfig   `hcl:"postgres,block"`
	PublishingAPI    *PublishingConfig `hcl:"publishing_api,block"`
	OrganisationsAPI *OrgsConfig       `hcl:"organisations_api,block"`
	Search           *SearchConfig     `hcl:"search,block"`
}

// PostgresConfig configures the database connection.
type PostgresConfig struct {
	Host     string `hcl:"host"`
	Port     int    `hcl:"port,optional"`
	User     string `hcl:"user"`
	Password string `hcl:"password,optional"`
	DBName   string `hcl:"dbname"`
	SSLMode  string `hcl:"sslmode,optional"`

	MaxIdleConns int `hcl:"max_idle_conns,optional"`
	MaxOpenConns int `hcl:"max_open_conns,optional"`
}

// PublishingConfig configures the publishing API client.
type PublishingConfig struct {
	BaseURL        string `hcl:"base_url"`
	BearerToken    string `hcl:"bearer_token,optional"`
	TimeoutSeconds int    `hcl:"timeout_seconds,optional"`
}

// OrgsConfig configures the organisations lookup client.
type OrgsConfig struct {
	BaseURL string `hcl:"base_url"`
}

// SearchConfig selects and configures the search backend. Provider is
// one of "algolia", "meilisearch" or "bleve".
type SearchConfig struct {
	Provider string `hcl:"provider"`

	Algolia     *AlgoliaConfig     `hcl:"algolia,block"`
	Meilisearch *MeilisearchConfig `hcl:"meilisearch,block"`
	Bleve       *BleveConfig       `hcl:"bleve,block"`
}

// AlgoliaConfig holds algolia credentials.
type AlgoliaConfig struct {
	AppID        string `hcl:"app_id"`
	WriteAPIKey  string `hcl:"write_api_key"`
	SearchAPIKey string `hcl:"search_api_key,optional"`
	IndexName    string `hcl:"index_name"`
}

// MeilisearchConfig holds meilisearch connection details.
type MeilisearchConfig struct {
	Host      string `hcl:"host"`
	APIKey    string `hcl:"api_key,optional"`
	IndexName string `hcl:"index_name"`
}

// BleveConfig holds the embedded index location.
type BleveConfig struct {
	Path string `hcl:"path"`
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the blocks that are present and accumulates every
// problem rather than stopping at the first.
func (c *Config) Validate() error {
	var errs *multierror.Error

	if c.Postgres == nil {
		errs = multierror.Append(errs, fmt.Errorf("postgres block is required"))
	} else {
		if c.Postgres.Host == "" {
			errs = multierror.Append(errs, fmt.Errorf("postgres.host is required"))
		}
		if c.Postgres.DBName == "" {
			errs = multierror.Append(errs, fmt.Errorf("postgres.dbname is required"))
		}
	}

	if c.PublishingAPI != nil && c.PublishingAPI.BaseURL == "" {
		errs = multierror.Append(errs, fmt.Errorf("publishing_api.base_url is required"))
	}
	if c.OrganisationsAPI != nil && c.OrganisationsAPI.BaseURL == "" {
		errs = multierror.Append(errs, fmt.Errorf("organisations_api.base_url is required"))
	}

	if c.Search != nil {
		switch c.Search.Provider {
		case "algolia":
			if c.Search.Algolia == nil {
				errs = multierror.Append(errs, fmt.Errorf("search.algolia block is required for provider %q", c.Search.Provider))
			}
		case "meilisearch":
			if c.Search.Meilisearch == nil {
				errs = multierror.Append(errs, fmt.Errorf("search.meilisearch block is required for provider %q", c.Search.Provider))
			}
		case "bleve":
			if c.Search.Bleve == nil {
				errs = multierror.Append(errs, fmt.Errorf("search.bleve block is required for provider %q", c.Search.Provider))
			}
		default:
			errs = multierror.Append(errs, fmt.Errorf("unknown search provider %q", c.Search.Provider))
		}
	}

	return errs.ErrorOrNil()
}

// DatabaseConfig maps the postgres block onto the connection settings.
func (c *Config) DatabaseConfig() database.Config {
	pg := c.Postgres
	port := pg.Port
	if port == 0 {
		port = 5432
	}
	sslMode := pg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return database.Config{
		Host:         pg.Host,
		Port:         port,
		User:         pg.User,
		Password:     pg.Password,
		DBName:       pg.DBName,
		SSLMode:      sslMode,
		MaxIdleConns: pg.MaxIdleConns,
		MaxOpenConns: pg.MaxOpenConns,
	}
}

// PublishingClientConfig maps the publishing_api block onto the client
// settings.
func (c *Config) PublishingClientConfig() publishingapi.Config {
	timeout := time.Duration(c.PublishingAPI.TimeoutSeconds) * time.Second
	return publishingapi.Config{
		BaseURL:     c.PublishingAPI.BaseURL,
		BearerToken: c.PublishingAPI.BearerToken,
		Timeout:     timeout,
	}
}
