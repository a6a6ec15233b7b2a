// Command graphc compiles a node-graph IR document to a C++ translation
// unit with an accompanying source map (spec.md §6).
package main

import (
	"errors"
	"os"

	"github.com/freneticmonkey/graphc/internal/cli"
)

// Set via ldflags at build time.
var version = "dev"

func main() {
	root := cli.NewRootCmd(version)
	if err := root.Execute(); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
