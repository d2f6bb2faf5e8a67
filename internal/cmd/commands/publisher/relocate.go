package publisher

import (
	"context"
	"flag"
	"fmt"

	"github.com/alphagov-forge/manuals-publisher/internal/cmd/base"
	"github.com/alphagov-forge/manuals-publisher/internal/relocator"
	"github.com/alphagov-forge/manuals-publisher/pkg/publishingapi"
)

type RelocateCommand struct {
	*base.Command

	flagConfig string
	flagFrom   string
	flagTo     string
}

func (c *RelocateCommand) Synopsis() string {
	return "Move a manual from one slug to another"
}

func (c *RelocateCommand) Help() string {
	return `Usage: manuals-publisher relocate

  Moves the manual at -from to the slug at -to. The manual currently
  occupying the destination slug is redirected and destroyed. Both
  slugs must match exactly one manual or the command aborts without
  changing anything.` +
		c.Flags().Help()
}

func (c *RelocateCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(
		flag.NewFlagSet("relocate", flag.ExitOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "(Required) Path to the publisher config file",
	)
	f.StringVar(
		&c.flagFrom, "from", "", "(Required) Slug the manual currently lives at",
	)
	f.StringVar(
		&c.flagTo, "to", "", "(Required) Slug the manual moves to",
	)

	return f
}

func (c *RelocateCommand) Run(args []string) int {
	log, ui := c.Log, c.UI

	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if c.flagFrom == "" || c.flagTo == "" {
		ui.Error("from and to flags are required")
		return 1
	}

	cfg, err := loadConfig(c.flagConfig)
	if err != nil {
		ui.Error(fmt.Sprintf("error loading config: %v", err))
		return 1
	}
	if cfg.PublishingAPI == nil {
		ui.Error("publishing_api block is required for relocation")
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

	r := relocator.New(db, apiClient, log)
	if err := r.Move(context.Background(), c.flagFrom, c.flagTo); err != nil {
		ui.Error(fmt.Sprintf("error relocating %s to %s: %v", c.flagFrom, c.flagTo, err))
		return 1
	}

	ui.Output(fmt.Sprintf("relocated %s to %s", c.flagFrom, c.flagTo))
	return 0
}
