// Command lexifuzz extracts dictionary entities from text.
package main

import (
	"os"

	"github.com/turtacn/LexiFuzz-NER/internal/interfaces/cli"
	"github.com/turtacn/LexiFuzz-NER/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	// Execute prints the error itself.
	if err := cli.Execute(); err != nil {
		os.Exit(errors.ExitStatusForCode(errors.GetCode(err)))
	}
}
