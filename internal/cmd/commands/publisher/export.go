package publisher

import (
	"context"
	"flag"
	"fmt"

	"github.com/alphagov-forge/manuals-publisher/internal/cmd/base"
	"github.com/alphagov-forge/manuals-publisher/internal/exporter"
	"github.com/alphagov-forge/manuals-publisher/internal/repository"
	"github.com/alphagov-forge/manuals-publisher/pkg/orgs"
	"github.com/alphagov-forge/manuals-publisher/pkg/publishingapi"
)

type ExportCommand struct {
	*base.Command

	flagConfig    string
	flagManualID  string
	flagRepublish bool
}

func (c *ExportCommand) Synopsis() string {
	return "Export a manual to the publishing API and search index"
}

func (c *ExportCommand) Help() string {
	return `Usage: manuals-publisher export

  Pushes the manual's current published and draft versions to the
  publishing API, indexes published content for search, and skips
  sections unchanged since their last export. With -republish every
  entity is sent regardless of staleness.` +
		c.Flags().Help()
}

func (c *ExportCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(
		flag.NewFlagSet("export", flag.ExitOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "(Required) Path to the publisher config file",
	)
	f.StringVar(
		&c.flagManualID, "manual-id", "", "(Required) Manual id to export",
	)
	f.BoolVar(
		&c.flagRepublish, "republish", false,
		"Force a full republish, ignoring the exported-at stamps.",
	)

	return f
}

func (c *ExportCommand) Run(args []string) int {
	log, ui := c.Log, c.UI

	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if c.flagManualID == "" {
		ui.Error("manual-id flag is required")
		return 1
	}

	cfg, err := loadConfig(c.flagConfig)
	if err != nil {
		ui.Error(fmt.Sprintf("error loading config: %v", err))
		return 1
	}
	if cfg.PublishingAPI == nil || cfg.OrganisationsAPI == nil {
		ui.Error("publishing_api and organisations_api blocks are required for export")
		return 1
	}

	db, err := openDatabase(cfg, log)
	if err != nil {
		ui.Error(fmt.Sprintf("error connecting to database: %v", err))
		return 1
	}

	apiClient, err := publishingapi.NewClient(cfg.PublishingClientConfig(), log)
	if err != nil {
		ui.Error(fmt.Sprintf("error building publishing API client: %v", err))
		return 1
	}

	orgFetcher, err := orgs.NewFetcher(orgs.Config{BaseURL: cfg.OrganisationsAPI.BaseURL}, log)
	if err != nil {
		ui.Error(fmt.Sprintf("error building organisations client: %v", err))
		return 1
	}

	searchAdapter, err := cfg.NewSearchAdapter()
	if err != nil {
		ui.Error(fmt.Sprintf("error building search adapter: %v", err))
		return 1
	}

	registry := repository.NewRegistry(db, log)
	m, err := registry.ManualRepository().Fetch(c.flagManualID)
	if err != nil {
		ui.Error(fmt.Sprintf("error loading manual %s: %v", c.flagManualID, err))
		return 1
	}

	action := exporter.ActionUpdate
	if c.flagRepublish {
		action = exporter.ActionRepublish
	}

	exp := exporter.New(apiClient, searchAdapter, orgFetcher, registry.SectionRepository(), log)
	if err := exp.Export(context.Background(), m, action); err != nil {
		ui.Error(fmt.Sprintf("error exporting manual %s: %v", c.flagManualID, err))
		return 1
	}

	ui.Output(fmt.Sprintf("exported manual %s (%s)", c.flagManualID, action))
	return 0
}
