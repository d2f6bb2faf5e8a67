// Package publisher holds the CLI commands that operate on the
// publisher's data: exporting, relocating, reporting and migration.
package publisher

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/alphagov-forge/manuals-publisher/internal/config"
	"github.com/alphagov-forge/manuals-publisher/pkg/database"
)

// loadConfig parses and validates the config file named by the -config
// flag.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config flag is required")
	}
	return config.Load(path)
}

// openDatabase connects to the configured Postgres instance.
func openDatabase(cfg *config.Config, log hclog.Logger) (*gorm.DB, error) {
	return database.Connect(cfg.DatabaseConfig(), log)
}
