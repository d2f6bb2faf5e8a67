package main

import (
	"os"

	"github.com/alphagov-forge/manuals-publisher/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
