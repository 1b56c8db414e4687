// Package ui renders weight-and-balance reports for terminals and runs the
// interactive load sheet.
package ui

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/Aman-CERP/wbadvisor/internal/units"
)

// Config configures report rendering.
type Config struct {
	Output  io.Writer
	NoColor bool
	// Unit is the display unit for weights; arms and CG are always inches.
	Unit units.Unit
}

// ConfigOption is a function that modifies Config.
type ConfigOption func(*Config)

// WithNoColor disables color output.
func WithNoColor(noColor bool) ConfigOption {
	return func(c *Config) {
		c.NoColor = noColor
	}
}

// WithUnit sets the display unit for weights.
func WithUnit(u units.Unit) ConfigOption {
	return func(c *Config) {
		c.Unit = u
	}
}

// NewConfig creates a new Config with the given output and options.
// Color is disabled when the output is not a terminal or NO_COLOR is set.
func NewConfig(output io.Writer, opts ...ConfigOption) Config {
	cfg := Config{
		Output:  output,
		NoColor: !IsTTY(output) || DetectNoColor(),
		Unit:    units.Pounds,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// Styles returns the styles matching the color preference.
func (c Config) Styles() Styles {
	return GetStyles(c.NoColor)
}

// IsTTY checks if output is a terminal.
func IsTTY(w io.Writer) bool {
	if w == nil {
		return false
	}

	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	return false
}

// DetectNoColor checks if NO_COLOR environment variable is set.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}
