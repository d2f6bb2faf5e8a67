package publisher

import (
	"flag"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/alphagov-forge/manuals-publisher/internal/cmd/base"
	"github.com/alphagov-forge/manuals-publisher/pkg/database"
)

type MigrateCommand struct {
	*base.Command

	flagConfig string
	flagSQLite string
}

func (c *MigrateCommand) Synopsis() string {
	return "Bring the database schema up to date"
}

func (c *MigrateCommand) Help() string {
	return `Usage: manuals-publisher migrate

  Auto-migrates every publisher table. Targets the configured Postgres
  database, or a local SQLite file when -sqlite is given.` +
		c.Flags().Help()
}

func (c *MigrateCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(
		flag.NewFlagSet("migrate", flag.ExitOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "Path to the publisher config file",
	)
	f.StringVar(
		&c.flagSQLite, "sqlite", "",
		"Migrate a local SQLite database file instead of Postgres.",
	)

	return f
}

func (c *MigrateCommand) Run(args []string) int {
	log, ui := c.Log, c.UI

	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	var db *gorm.DB
	var err error
	switch {
	case c.flagSQLite != "":
		db, err = gorm.Open(sqlite.Open(c.flagSQLite), &gorm.Config{
			Logger: database.NewGormLogger(log.Named("gorm")),
		})
	case c.flagConfig != "":
		loaded, cfgErr := loadConfig(c.flagConfig)
		if cfgErr != nil {
			ui.Error(fmt.Sprintf("error loading config: %v", cfgErr))
			return 1
		}
		db, err = openDatabase(loaded, log)
	default:
		ui.Error("either config or sqlite flag is required")
		return 1
	}
	if err != nil {
		ui.Error(fmt.Sprintf("error connecting to database: %v", err))
		return 1
	}

	if err := database.Migrate(db); err != nil {
		ui.Error(fmt.Sprintf("error migrating schema: %v", err))
		return 1
	}

	ui.Output("schema is up to date")
	return 0
}
