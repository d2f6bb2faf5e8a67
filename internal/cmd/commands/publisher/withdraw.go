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

type WithdrawCommand struct {
	*base.Command

	flagConfig       string
	flagManualID     string
	flagRedirectPath string
}

func (c *WithdrawCommand) Synopsis() string {
	return "Withdraw a manual, redirecting its pages"
}

func (c *WithdrawCommand) Help() string {
	return `Usage: manuals-publisher withdraw

  Archives the manual and its sections, unpublishes them with redirects
  to -redirect-path (discarding remote drafts) and removes their
  search-index entries. A withdrawn manual surfaces neither a published
  nor a draft version.` +
		c.Flags().Help()
}

func (c *WithdrawCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(
		flag.NewFlagSet("withdraw", flag.ExitOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "(Required) Path to the publisher config file",
	)
	f.StringVar(
		&c.flagManualID, "manual-id", "", "(Required) Manual id to withdraw",
	)
	f.StringVar(
		&c.flagRedirectPath, "redirect-path", "",
		"(Required) Path the withdrawn pages redirect to.",
	)

	return f
}

func (c *WithdrawCommand) Run(args []string) int {
	log, ui := c.Log, c.UI

	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if c.flagManualID == "" || c.flagRedirectPath == "" {
		ui.Error("manual-id and redirect-path flags are required")
		return 1
	}

	cfg, err := loadConfig(c.flagConfig)
	if err != nil {
		ui.Error(fmt.Sprintf("error loading config: %v", err))
		return 1
	}
	if cfg.PublishingAPI == nil || cfg.OrganisationsAPI == nil {
		ui.Error("publishing_api and organisations_api blocks are required for withdraw")
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
	repo := registry.ManualRepository()
	m, err := repo.Fetch(c.flagManualID)
	if err != nil {
		ui.Error(fmt.Sprintf("error loading manual %s: %v", c.flagManualID, err))
		return 1
	}

	// Archive locally first so the resolver stops surfacing the manual
	// even if the remote unpublish needs a re-run.
	if edition := m.LatestEdition(); edition != nil {
		if err := edition.Archive(); err != nil {
			ui.Error(fmt.Sprintf("error archiving manual %s: %v", c.flagManualID, err))
			return 1
		}
	}
	for _, section := range m.Sections {
		if edition := section.LatestEdition(); edition != nil {
			if err := edition.Archive(); err != nil {
				ui.Error(fmt.Sprintf("error archiving section %s: %v", section.ID, err))
				return 1
			}
		}
	}
	if _, err := repo.Store(m); err != nil {
		ui.Error(fmt.Sprintf("error storing manual %s: %v", c.flagManualID, err))
		return 1
	}

	exp := exporter.New(apiClient, searchAdapter, orgFetcher, registry.SectionRepository(), log)
	if err := exp.Withdraw(context.Background(), m, c.flagRedirectPath); err != nil {
		ui.Error(fmt.Sprintf("error withdrawing manual %s: %v", c.flagManualID, err))
		return 1
	}

	ui.Output(fmt.Sprintf("withdrew manual %s, redirecting to %s", c.flagManualID, c.flagRedirectPath))
	return 0
}
