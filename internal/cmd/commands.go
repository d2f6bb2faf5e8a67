package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/alphagov-forge/manuals-publisher/internal/cmd/base"
	"github.com/alphagov-forge/manuals-publisher/internal/cmd/commands/publisher"
	"github.com/alphagov-forge/manuals-publisher/internal/version"
)

// Commands is the mapping of all available CLI commands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	b := base.NewCommand(log, ui)

	Commands = map[string]cli.CommandFactory{
		"export": func() (cli.Command, error) {
			return &publisher.ExportCommand{Command: b}, nil
		},
		"publish": func() (cli.Command, error) {
			return &publisher.PublishCommand{Command: b}, nil
		},
		"relocate": func() (cli.Command, error) {
			return &publisher.RelocateCommand{Command: b}, nil
		},
		"withdraw": func() (cli.Command, error) {
			return &publisher.WithdrawCommand{Command: b}, nil
		},
		"report attachments": func() (cli.Command, error) {
			return &publisher.ReportAttachmentsCommand{Command: b}, nil
		},
		"migrate": func() (cli.Command, error) {
			return &publisher.MigrateCommand{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &VersionCommand{Command: b}, nil
		},
	}
}

// VersionCommand prints the build version.
type VersionCommand struct {
	*base.Command
}

func (c *VersionCommand) Synopsis() string {
	return "Print the version"
}

func (c *VersionCommand) Help() string {
	return "Usage: manuals-publisher version"
}

func (c *VersionCommand) Run(args []string) int {
	c.UI.Output(version.Version)
	return 0
}
