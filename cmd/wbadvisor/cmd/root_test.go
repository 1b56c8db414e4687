package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wberrors "github.com/Aman-CERP/wbadvisor/internal/errors"
)

// isolate points every user path at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("NO_COLOR", "1")
	for _, key := range []string{
		"WBADVISOR_AIRCRAFT", "WBADVISOR_AIRCRAFT_FILE", "WBADVISOR_INPUT_UNIT",
		"WBADVISOR_FUEL_UNIT", "WBADVISOR_PROFILE_BACKEND", "WBADVISOR_PROFILE_PATH",
		"WBADVISOR_LOG_LEVEL", "WBADVISOR_CACHE_SIZE",
	} {
		t.Setenv(key, "")
	}
	return home
}

// run executes the root command with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	// Given: root command
	cmd := NewRootCmd()

	// Then: every subcommand is registered
	names := make(map[string]bool)
	for _, sc := range cmd.Commands() {
		names[sc.Name()] = true
	}
	for _, want := range []string{"compute", "aircraft", "profile", "convert", "sheet", "serve", "config", "logs", "version"} {
		assert.True(t, names[want], "missing %s command", want)
	}

	// And: --debug is persistent
	assert.NotNil(t, cmd.PersistentFlags().Lookup("debug"))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"unsafe", ErrUnsafeLoad, 2},
		{"wrapped unsafe", fmt.Errorf("compute: %w", ErrUnsafeLoad), 2},
		{"other", errors.New("boom"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestPrintError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "structured",
			err:  wberrors.New(wberrors.ErrCodeUnknownStation, `unknown station "pod"`, nil).WithSuggestion("stations: pilot"),
			want: []string{`Error: unknown station "pod"`, "Hint: stations: pilot", "Code: ERR_402_UNKNOWN_STATION"},
		},
		{
			name: "plain",
			err:  errors.New("accepts 1 arg(s), received 0"),
			want: []string{"Error: accepts 1 arg(s), received 0\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			printError(buf, tt.err)
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestPrintError_UnsafeLoadIsSilent(t *testing.T) {
	buf := &bytes.Buffer{}
	printError(buf, ErrUnsafeLoad)
	assert.Empty(t, buf.String())
}

func TestRootCmd_UnknownCommand(t *testing.T) {
	isolate(t)

	_, err := run(t, "fly")

	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
}
