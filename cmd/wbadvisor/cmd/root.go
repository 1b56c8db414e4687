// Package cmd provides the CLI commands for wbadvisor.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	wberrors "github.com/Aman-CERP/wbadvisor/internal/errors"
	"github.com/Aman-CERP/wbadvisor/internal/logging"
	"github.com/Aman-CERP/wbadvisor/pkg/version"
)

// Debug logging flag
var (
	debugMode      bool
	loggingCleanup func()
)

// ErrUnsafeLoad is returned by compute --strict when the report is not safe.
var ErrUnsafeLoad = errors.New("load is outside the envelope or over a limit")

// NewRootCmd creates the root command for wbadvisor CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wbadvisor",
		Short: "Aircraft weight-and-balance advisor",
		Long: `wbadvisor computes take-off, zero-fuel and landing weight and CG for a
payload, checks them against the aircraft's CG envelope and limits, and
reports advisories.

Results are advisory only. Always verify against the aircraft's approved
weight and balance documents.`,
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.SetVersionTemplate("wbadvisor version {{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.wbadvisor/logs/")

	cmd.PersistentPreRunE = startLogging
	cmd.PersistentPostRunE = stopLogging

	cmd.AddCommand(newComputeCmd())
	cmd.AddCommand(newAircraftCmd())
	cmd.AddCommand(newProfileCmd())
	cmd.AddCommand(newConvertCmd())
	cmd.AddCommand(newSheetCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newLogsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startLogging enables debug logging if the flag is set.
func startLogging(_ *cobra.Command, _ []string) error {
	if !debugMode {
		return nil
	}
	logger, cleanup, err := logging.Setup(logging.DebugConfig())
	if err != nil {
		return fmt.Errorf("failed to setup debug logging: %w", err)
	}
	loggingCleanup = cleanup
	slog.SetDefault(logger)
	slog.Info("Debug logging enabled",
		slog.String("log_file", logging.DefaultLogPath()),
		slog.String("version", version.Version))
	return nil
}

func stopLogging(_ *cobra.Command, _ []string) error {
	if loggingCleanup != nil {
		slog.Info("Debug logging stopped")
		loggingCleanup()
		loggingCleanup = nil
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	err := NewRootCmd().Execute()
	if err != nil {
		printError(os.Stderr, err)
	}
	return err
}

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUnsafeLoad):
		return 2
	default:
		return 1
	}
}

func printError(w io.Writer, err error) {
	// The report has already been printed.
	if errors.Is(err, ErrUnsafeLoad) {
		return
	}
	var we *wberrors.WBError
	if errors.As(err, &we) {
		_, _ = fmt.Fprint(w, wberrors.FormatForCLI(err))
		return
	}
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
}
