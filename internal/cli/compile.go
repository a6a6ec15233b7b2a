package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/freneticmonkey/graphc/driver"
	"github.com/freneticmonkey/graphc/emit"
	"github.com/freneticmonkey/graphc/validate"
)

// NewCompileCmd creates the "compile" subcommand: `compile <ir-path>
// [<catalog-path>]` (spec.md §6).
func NewCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <ir-path> [<catalog-path>]",
		Short: "Compile a node graph IR document to C++",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runCompile,
	}

	cmd.Flags().StringP("output-dir", "o", ".", "Directory to write source.cpp, mapping.json, and (on compile failure) diagnostics.json")
	cmd.Flags().String("sandbox-dir", "", "Shared directory for the sandbox request/response file protocol (default: output-dir)")

	return cmd
}

func runCompile(cmd *cobra.Command, args []string) error {
	irPath := args[0]
	catalogPath := ""
	if len(args) > 1 {
		catalogPath = args[1]
	}

	outputDir, _ := cmd.Flags().GetString("output-dir")
	sandboxDir, _ := cmd.Flags().GetString("sandbox-dir")
	if sandboxDir == "" {
		sandboxDir = outputDir
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return exitError(1, "creating output directory: %s", err)
	}

	d, err := driver.New(noop.NewMeterProvider().Meter("graphc"), loggerFor(cmd))
	if err != nil {
		return exitError(1, "initializing driver: %s", err)
	}

	result, err := d.Compile(cmd.Context(), irPath, catalogPath)
	if err != nil {
		var verr *validate.Error
		if errors.As(err, &verr) {
			fmt.Fprintln(cmd.ErrOrStderr(), verr.Error())
			return exitError(exitValidationFailed, "validation failed: %s", verr.Error())
		}
		return exitError(1, "%s", err)
	}

	if err := driver.WriteSource(filepath.Join(outputDir, "source.cpp"), result.Source); err != nil {
		return exitError(1, "%s", err)
	}
	if err := driver.WriteMapping(filepath.Join(outputDir, "mapping.json"), result.Mapping); err != nil {
		return exitError(1, "%s", err)
	}

	if err := os.MkdirAll(sandboxDir, 0o755); err != nil {
		return exitError(1, "creating sandbox directory: %s", err)
	}
	req := driver.SandboxRequest{
		RequestID: result.RequestID,
		IR:        result.IR,
		Catalog:   result.Catalog,
		TimeoutS:  driver.ExecTimeoutSeconds(),
	}
	if err := driver.WriteSandboxRequest(sandboxDir, req); err != nil {
		return exitError(1, "%s", err)
	}

	resp, err := driver.ReadSandboxResponse(sandboxDir)
	if err != nil {
		// No sandbox has run yet — the request contract has been honored and
		// emission succeeded; running the sandbox itself is out of scope.
		fmt.Fprintln(cmd.OutOrStdout(), "compiled; awaiting sandbox response")
		return nil
	}

	return handleSandboxResponse(cmd, resp, outputDir, result.Mapping)
}

func handleSandboxResponse(cmd *cobra.Command, resp *driver.SandboxResponse, outputDir string, mapping []emit.MappingEntry) error {
	if resp.Success {
		fmt.Fprint(cmd.OutOrStdout(), resp.Stdout)
		return nil
	}
	if resp.Error == "timeout" {
		return exitError(exitTimeout, "execution timed out")
	}

	mapped := driver.MapDiagnostics(resp.Stderr, mapping)
	diagPath := filepath.Join(outputDir, "diagnostics.json")
	if err := driver.WriteDiagnosticMapping(diagPath, mapped, resp.Stderr); err != nil {
		return exitError(1, "%s", err)
	}
	return exitError(exitCompileFailed, "C++ compile failed, diagnostics written to %s", diagPath)
}
