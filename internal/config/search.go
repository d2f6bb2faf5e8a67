package config

import (
	"fmt"

	"github.com/alphagov-forge/manuals-publisher/pkg/search"
	"github.com/alphagov-forge/manuals-publisher/pkg/search/adapters/algolia"
	"github.com/alphagov-forge/manuals-publisher/pkg/search/adapters/bleve"
	"github.com/alphagov-forge/manuals-publisher/pkg/search/adapters/meilisearch"
)

// NewSearchAdapter builds the search adapter the config selects.
func (c *Config) NewSearchAdapter() (search.Adapter, error) {
	if c.Search == nil {
		return nil, fmt.Errorf("search block is required")
	}
	switch c.Search.Provider {
	case "algolia":
		return algolia.NewAdapter(&algolia.Config{
			AppID:        c.Search.Algolia.AppID,
			WriteAPIKey:  c.Search.Algolia.WriteAPIKey,
			SearchAPIKey: c.Search.Algolia.SearchAPIKey,
			IndexName:    c.Search.Algolia.IndexName,
		})
	case "meilisearch":
		return meilisearch.NewAdapter(&meilisearch.Config{
			Host:      c.Search.Meilisearch.Host,
			APIKey:    c.Search.Meilisearch.APIKey,
			IndexName: c.Search.Meilisearch.IndexName,
		})
	case "bleve":
		return bleve.NewAdapter(&bleve.Config{
			IndexPath: c.Search.Bleve.Path,
		})
	default:
		return nil, fmt.Errorf("unknown search provider %q", c.Search.Provider)
	}
}
