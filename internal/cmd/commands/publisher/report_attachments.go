package publisher

import (
	"flag"
	"fmt"
	"sort"
	"time"

	"github.com/alphagov-forge/manuals-publisher/internal/cmd/base"
	"github.com/alphagov-forge/manuals-publisher/internal/reporting"
)

type ReportAttachmentsCommand struct {
	*base.Command

	flagConfig     string
	flagStartDate  string
	flagRecentDays int
	flagExtension  string
}

func (c *ReportAttachmentsCommand) Synopsis() string {
	return "Count published attachments per organisation"
}

func (c *ReportAttachmentsCommand) Help() string {
	return `Usage: manuals-publisher report attachments

  Counts published attachments with the given file extension for each
  owning organisation, across three windows: all time, since
  -start-date, and the trailing -recent-days.` +
		c.Flags().Help()
}

func (c *ReportAttachmentsCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(
		flag.NewFlagSet("report attachments", flag.ExitOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "(Required) Path to the publisher config file",
	)
	f.StringVar(
		&c.flagStartDate, "start-date", "",
		"(Required) Start of the reporting window, YYYY-MM-DD.",
	)
	f.IntVar(
		&c.flagRecentDays, "recent-days", 30,
		"Length in days of the trailing window.",
	)
	f.StringVar(
		&c.flagExtension, "extension", "pdf",
		"Attachment file extension to count, without the dot.",
	)

	return f
}

func (c *ReportAttachmentsCommand) Run(args []string) int {
	log, ui := c.Log, c.UI

	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	startDate, err := time.Parse("2006-01-02", c.flagStartDate)
	if err != nil {
		ui.Error(fmt.Sprintf("error parsing start-date: %v", err))
		return 1
	}

	cfg, err := loadConfig(c.flagConfig)
	if err != nil {
		ui.Error(fmt.Sprintf("error loading config: %v", err))
		return 1
	}

	db, err := openDatabase(cfg, log)
	if err != nil {
		ui.Error(fmt.Sprintf("error connecting to database: %v", err))
		return 1
	}

	report := reporting.NewAttachmentReport(db, startDate, c.flagRecentDays, c.flagExtension)
	counts, err := report.CountsByOrganisation()
	if err != nil {
		ui.Error(fmt.Sprintf("error building report: %v", err))
		return 1
	}

	orgNames := make([]string, 0, len(counts))
	for org := range counts {
		orgNames = append(orgNames, org)
	}
	sort.Strings(orgNames)

	ui.Output(fmt.Sprintf("%-50s %10s %12s %12s", "Organisation", "Total", "Since start", "Recent"))
	for _, org := range orgNames {
		count := counts[org]
		ui.Output(fmt.Sprintf("%-50s %10d %12d %12d",
			org, count.Total, count.SinceStart, count.RecentPeriod))
	}
	return 0
}
