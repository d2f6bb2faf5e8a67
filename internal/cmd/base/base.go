// Package base carries the pieces shared by every CLI command: the
// logger and UI handles, and a flag set that can render its own help.
package base

import (
	"bytes"
	"flag"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
)

// Command is embedded by each CLI command.
type Command struct {
	Log hclog.Logger
	UI  cli.Ui
}

// NewCommand builds the shared command base.
func NewCommand(log hclog.Logger, ui cli.Ui) *Command {
	return &Command{Log: log, UI: ui}
}

// FlagSet wraps flag.FlagSet so commands can append rendered flag usage
// to their help output.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet wraps a standard flag set.
func NewFlagSet(fs *flag.FlagSet) *FlagSet {
	return &FlagSet{FlagSet: fs}
}

// Help renders the flag defaults as an indented block suitable for
// appending to a command's help text.
func (f *FlagSet) Help() string {
	var buf bytes.Buffer
	buf.WriteString("\n\nFlags:\n\n")
	f.SetOutput(&buf)
	f.PrintDefaults()
	return buf.String()
}
