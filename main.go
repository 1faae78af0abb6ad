package main

import (
	"os"

	"github.com/poq-labs/poq/internal/cli"
	"github.com/poq-labs/poq/internal/failure"
)

// version, commit, and date are set via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := cli.Execute(version, commit, date); err != nil {
		failure.Print(os.Stderr, err)
		os.Exit(failure.ExitCode(err))
	}
}
