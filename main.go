// Command ferrite builds, exports, inspects, and converts interatomic
// potential models and datasets.
package main

import (
	"os"

	"github.com/ferrite-md/ferrite/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// Subcommands print their own errors; flag errors are printed by cobra.
		os.Exit(cli.GetExitCode(err))
	}
}
