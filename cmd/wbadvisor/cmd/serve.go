package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Aman-CERP/wbadvisor/internal/aircraft"
	"github.com/Aman-CERP/wbadvisor/internal/logging"
	"github.com/Aman-CERP/wbadvisor/internal/mcp"
	"github.com/Aman-CERP/wbadvisor/internal/profile"
	"github.com/Aman-CERP/wbadvisor/internal/watcher"
)

func newServeCmd() *cobra.Command {
	var (
		ac        aircraftFlags
		uf        unitFlags
		transport string
		noWatch   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol server on stdio.

Tools: compute_report, aircraft_info, list_profiles, load_profile,
save_profile and optimization_brief.

Stdout carries JSON-RPC only; logs go to ~/.wbadvisor/logs/wbadvisor.log.
When the aircraft comes from a file, edits to it are picked up without a
restart. An edit that fails validation is logged and ignored.`,
		Example: `  # MCP client configuration
  {"command": "wbadvisor", "args": ["serve"]}

  # Serve a custom aircraft and follow its edits
  wbadvisor serve --aircraft-file ./n12345.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(ctxOf(cmd), serveOptions{
				aircraft:  ac,
				units:     uf,
				transport: transport,
				noWatch:   noWatch,
			})
		},
	}

	ac.register(cmd)
	uf.register(cmd)
	cmd.Flags().StringVar(&transport, "transport", "", "Transport (stdio); defaults to server.transport")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload the aircraft file on change")

	return cmd
}

type serveOptions struct {
	aircraft  aircraftFlags
	units     unitFlags
	transport string
	noWatch   bool
}

func runServe(ctx context.Context, opts serveOptions) error {
	// Nothing may reach stdout before the server starts.
	s, err := loadSettings(opts.aircraft)
	if err != nil {
		return err
	}
	u, err := s.inputUnits(opts.units)
	if err != nil {
		return err
	}

	level := s.cfg.Server.LogLevel
	if debugMode {
		level = "debug"
	}
	logger, cleanup, err := logging.Setup(logging.MCPConfig(level))
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer cleanup()
	slog.SetDefault(logger)

	transport := opts.transport
	if transport == "" {
		transport = s.cfg.Server.Transport
	}

	store, err := profile.Open(s.cfg.Profiles)
	if err != nil {
		logger.Warn("profile_store_unavailable",
			slog.String("error", err.Error()),
			slog.String("action", "profile tools disabled"))
		store = nil
	}

	src := aircraft.NewSource(s.aircraft)
	server, err := mcp.NewServer(src, mcp.Options{
		Units:     u,
		CacheSize: s.cfg.Cache.Size,
		Profiles:  store,
		Logger:    logger,
	})
	if err != nil {
		if store != nil {
			_ = store.Close()
		}
		return err
	}
	defer func() { _ = server.Close() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The watcher stops when the server returns, for any reason.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		err := server.Serve(gctx, transport)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if file := s.cfg.Aircraft.AircraftFile(); file != "" && s.cfg.Watch.Enabled && !opts.noWatch {
		w := watcher.NewConfigWatcher(file, src, watcher.Options{
			DebounceWindow: s.cfg.Watch.DebounceDuration(),
		})
		g.Go(func() error {
			// A failed watch leaves the server on the aircraft it started with.
			if err := w.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("aircraft_watch_failed",
					slog.String("path", file),
					slog.String("error", err.Error()))
			}
			return nil
		})
	}

	return g.Wait()
}
