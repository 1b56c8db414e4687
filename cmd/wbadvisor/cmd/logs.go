package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"regexp"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/wbadvisor/internal/logging"
	"github.com/Aman-CERP/wbadvisor/internal/ui"
)

func newLogsCmd() *cobra.Command {
	var (
		follow  bool
		lines   int
		level   string
		filter  string
		noColor bool
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "View wbadvisor logs",
		Long: `View and tail the wbadvisor log (~/.wbadvisor/logs/wbadvisor.log).

The log is written by 'wbadvisor serve' and by any command run with --debug.`,
		Example: `  wbadvisor logs                  # Last 50 lines
  wbadvisor logs -f               # Follow in real time
  wbadvisor logs --level warn     # Rejected reloads and failures only
  wbadvisor logs --filter profile # Lines matching a pattern`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := logging.FindLogFile(logFile)
			if err != nil {
				return err
			}

			var pattern *regexp.Regexp
			if filter != "" {
				if pattern, err = regexp.Compile(filter); err != nil {
					return fmt.Errorf("invalid filter pattern: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			viewer := logging.NewViewer(logging.ViewerConfig{
				Level:   level,
				Pattern: pattern,
				NoColor: noColor || !ui.IsTTY(out) || ui.DetectNoColor(),
			}, out)

			errOut := cmd.ErrOrStderr()
			_, _ = fmt.Fprintf(errOut, "Log file: %s\n---\n", path)

			if follow {
				return followLog(ctxOf(cmd), viewer, path, out)
			}

			entries, err := viewer.Tail(path, lines)
			if err != nil {
				return err
			}
			viewer.Print(entries)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Follow log output (like tail -f)")
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to show")
	cmd.Flags().StringVar(&level, "level", "", "Minimum log level (debug|info|warn|error)")
	cmd.Flags().StringVar(&filter, "filter", "", "Filter by pattern (regex)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.Flags().StringVar(&logFile, "file", "", "Path to log file")

	return cmd
}

func followLog(ctx context.Context, viewer *logging.Viewer, path string, out io.Writer) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	entries := make(chan logging.Entry, 100)
	errCh := make(chan error, 1)
	go func() { errCh <- viewer.Follow(ctx, path, entries) }()

	for {
		select {
		case e := <-entries:
			_, _ = fmt.Fprintln(out, viewer.Format(e))
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return nil
		}
	}
}
