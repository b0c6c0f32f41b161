package main

import (
	"os"

	"github.com/trebuchet-org/sling/internal/cli"
	"github.com/trebuchet-org/sling/internal/config"
)

// Set by -ldflags at release time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	config.SetBuildFlags(version, commit, date)
	os.Exit(cli.Execute(cli.NewRootCmd()))
}
