package publisher

import (
	"context"
	"flag"
	"fmt"

	"github.com/alphagov-forge/manuals-publisher/internal/cmd/base"
	"github.com/alphagov-forge/manuals-publisher/internal/exporter"
	"github.com/alphagov-forge/manuals-publisher/internal/repository"
	"github.com/alphagov-forge/manuals-publisher/internal/services"
	"github.com/alphagov-forge/manuals-publisher/pkg/orgs"
	"github.com/alphagov-forge/manuals-publisher/pkg/publishingapi"
)

type PublishCommand struct {
	*base.Command

	flagConfig   string
	flagManualID string
}

func (c *PublishCommand) Synopsis() string {
	return "Publish a manual's draft edition"
}

func (c *PublishCommand) Help() string {
	return `Usage: manuals-publisher publish

  Transitions the manual's draft edition and its sections' draft
  editions to published, records change notes in the publication log,
  and exports the result.` +
		c.Flags().Help()
}

func (c *PublishCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(
		flag.NewFlagSet("publish", flag.ExitOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "(Required) Path to the publisher config file",
	)
	f.StringVar(
		&c.flagManualID, "manual-id", "", "(Required) Manual id to publish",
	)

	return f
}

func (c *PublishCommand) Run(args []string) int {
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
		ui.Error("publishing_api and organisations_api blocks are required for publish")
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
	exp := exporter.New(apiClient, searchAdapter, orgFetcher, registry.SectionRepository(), log)

	svc := services.NewPublishService(registry, exp, log)
	m, err := svc.Publish(context.Background(), c.flagManualID)
	if err != nil {
		ui.Error(fmt.Sprintf("error publishing manual %s: %v", c.flagManualID, err))
		return 1
	}

	ui.Output(fmt.Sprintf("published manual %s at version %d", m.ID(), m.VersionNumber()))
	return 0
}
