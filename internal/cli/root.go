// Package cli implements the graphc CLI surface: a cobra root command plus
// the compile subcommand specified in spec.md §6 (grounded on the pack's
// cmd/<name>/main.go + cli.NewXCmd() convention).
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the graphc root command with its persistent flags and
// the compile subcommand wired in.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:          "graphc",
		Short:        "Compile a node graph IR to C++",
		Long:         "graphc compiles a node-graph intermediate representation into a single C++ translation unit, with a source map tying every emitted span back to the node and port that produced it.",
		SilenceUsage: true,
	}

	root.PersistentFlags().Bool("verbose", false, "Enable verbose/debug logging")
	root.PersistentFlags().Bool("quiet", false, "Suppress all output except errors")

	root.Version = version
	root.SetVersionTemplate(fmt.Sprintf("graphc version %s\n", version))

	root.AddCommand(NewCompileCmd())

	return root
}

// loggerFor builds the slog.Logger a subcommand should use, honoring the
// persistent --verbose/--quiet flags.
func loggerFor(cmd *cobra.Command) *slog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")

	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
