package watcher

import (
	"context"
	"log/slog"

	"github.com/Aman-CERP/wbadvisor/internal/aircraft"
	wberrors "github.com/Aman-CERP/wbadvisor/internal/errors"
)

// ConfigWatcher hot-reloads an aircraft file into a Source.
type ConfigWatcher struct {
	path     string
	source   *aircraft.Source
	opts     Options
	load     func(string) (*aircraft.Config, error)
	onReload func(*aircraft.Config)
}

// NewConfigWatcher creates a watcher that swaps source whenever path
// changes and still validates.
func NewConfigWatcher(path string, source *aircraft.Source, opts Options) *ConfigWatcher {
	return &ConfigWatcher{
		path:   path,
		source: source,
		opts:   opts.WithDefaults(),
		load:   aircraft.Load,
	}
}

// OnReload registers fn to run after each successful swap.
func (c *ConfigWatcher) OnReload(fn func(*aircraft.Config)) *ConfigWatcher {
	c.onReload = fn
	return c
}

// Run watches until ctx is cancelled.
func (c *ConfigWatcher) Run(ctx context.Context) error {
	fw, err := NewFileWatcher([]string{c.path}, c.opts)
	if err != nil {
		return err
	}

	slog.Info("aircraft_watch_started", slog.String("path", c.path))
	defer slog.Info("aircraft_watch_stopped", slog.String("path", c.path))

	return fw.Run(ctx, func(batch []FileEvent) {
		for _, e := range batch {
			if e.Operation.Removed() {
				slog.Warn("aircraft_file_removed",
					slog.String("path", e.Path),
					slog.String("action", "keeping current configuration"))
				continue
			}
			_ = c.Reload()
		}
	})
}

// Reload loads and validates the file now. On failure the current
// configuration is kept and the error returned.
func (c *ConfigWatcher) Reload() error {
	cfg, err := c.load(c.path)
	if err != nil {
		slog.Warn("aircraft_reload_rejected",
			slog.String("path", c.path),
			slog.String("code", wberrors.GetCode(err)),
			slog.String("error", err.Error()))
		return err
	}

	prev := c.source.Swap(cfg)
	attrs := []any{slog.String("path", c.path), slog.String("aircraft", cfg.Name)}
	if prev != nil {
		attrs = append(attrs, slog.String("previous", prev.Name))
	}
	slog.Info("aircraft_reloaded", attrs...)

	if c.onReload != nil {
		c.onReload(cfg)
	}
	return nil
}
