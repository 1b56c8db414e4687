package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wberrors "github.com/Aman-CERP/wbadvisor/internal/errors"
)

// isolate points the user config at an empty temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	for _, key := range []string{
		"WBADVISOR_AIRCRAFT", "WBADVISOR_AIRCRAFT_FILE", "WBADVISOR_INPUT_UNIT",
		"WBADVISOR_FUEL_UNIT", "WBADVISOR_PROFILE_BACKEND", "WBADVISOR_PROFILE_PATH",
		"WBADVISOR_LOG_LEVEL", "WBADVISOR_CACHE_SIZE",
	} {
		t.Setenv(key, "")
	}
	return xdg
}

func TestNewConfig_ReturnsDefaults(t *testing.T) {
	// Given: no configuration file exists
	cfg := NewConfig()

	// Then: all defaults should be applied
	require.NotNil(t, cfg)
	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "c182t", cfg.Aircraft.Preset)
	assert.Empty(t, cfg.Aircraft.File)
	assert.Equal(t, "lb", cfg.Units.Input)
	assert.Equal(t, "lb", cfg.Units.Fuel)
	assert.Equal(t, BackendFile, cfg.Profiles.Backend)
	assert.Equal(t, "stdio", cfg.Server.Transport)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 256, cfg.Cache.Size)
	assert.True(t, cfg.Watch.Enabled)
	assert.Equal(t, 250*time.Millisecond, cfg.Watch.DebounceDuration())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFiles_ReturnsDefaults(t *testing.T) {
	// Given: empty project dir and no user config
	isolate(t)
	dir := t.TempDir()

	// When: loading
	cfg, err := Load(dir)

	// Then: defaults are returned
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), cfg)
}

func TestLoad_LayersUserProjectAndEnv(t *testing.T) {
	// Given: a user config, a project config and an env override
	xdg := isolate(t)
	userPath := filepath.Join(xdg, "wbadvisor", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(userPath), 0o755))
	require.NoError(t, os.WriteFile(userPath, []byte(`
aircraft:
  preset: c182-reference
units:
  input: kg
cache:
  size: 10
`), 0o644))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".wbadvisor.yaml"), []byte(`
units:
  fuel: gal
profiles:
  backend: sqlite
`), 0o644))

	t.Setenv("WBADVISOR_CACHE_SIZE", "0")
	t.Setenv("WBADVISOR_LOG_LEVEL", "debug")

	// When: loading
	cfg, err := Load(dir)

	// Then: each layer wins over the one below it
	require.NoError(t, err)
	assert.Equal(t, "c182-reference", cfg.Aircraft.Preset)
	assert.Equal(t, "kg", cfg.Units.Input)
	assert.Equal(t, "gal", cfg.Units.Fuel)
	assert.Equal(t, BackendSQLite, cfg.Profiles.Backend)
	assert.Equal(t, 0, cfg.Cache.Size)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
}

func TestLoad_YmlExtension_IsRead(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".wbadvisor.yml"), []byte("aircraft:\n  file: ./n123.yaml\n"), 0o644))

	cfg, err := Load(dir)

	require.NoError(t, err)
	assert.Equal(t, "./n123.yaml", cfg.Aircraft.File)
}

func TestLoadProjectConfig(t *testing.T) {
	// Given: a directory without a project file
	dir := t.TempDir()
	cfg, path, err := LoadProjectConfig(dir)
	require.NoError(t, err)
	assert.Nil(t, cfg)
	assert.Empty(t, path)

	// When: a project file selects kilograms
	want := filepath.Join(dir, ProjectConfigName)
	require.NoError(t, os.WriteFile(want, []byte("units:\n  input: kg\n"), 0o644))
	cfg, path, err = LoadProjectConfig(dir)

	// Then: only what the file sets is present
	require.NoError(t, err)
	assert.Equal(t, want, path)
	assert.Equal(t, want, ProjectConfigPath(dir))
	assert.Equal(t, "kg", cfg.Units.Input)
	assert.Empty(t, cfg.Aircraft.Preset)
}

func TestLoad_InvalidCacheEnv_Ignored(t *testing.T) {
	isolate(t)
	t.Setenv("WBADVISOR_CACHE_SIZE", "lots")

	cfg, err := Load(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, 256, cfg.Cache.Size)
}

func TestLoad_MalformedYAML_ReturnsConfigError(t *testing.T) {
	// Given: a project file with broken YAML
	isolate(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".wbadvisor.yaml"), []byte("units: [\n"), 0o644))

	// When: loading
	_, err := Load(dir)

	// Then: a config-category error names the file
	require.Error(t, err)
	assert.Equal(t, wberrors.CategoryConfig, wberrors.GetCategory(err))
}

func TestLoad_WatchSectionWithoutDebounce_KeepsDefaults(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".wbadvisor.yaml"), []byte("watch:\n  enabled: false\n"), 0o644))

	cfg, err := Load(dir)

	require.NoError(t, err)
	assert.True(t, cfg.Watch.Enabled)
}

func TestLoad_WatchSectionWithDebounce_Applies(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".wbadvisor.yaml"),
		[]byte("watch:\n  enabled: false\n  debounce: 1s\n"), 0o644))

	cfg, err := Load(dir)

	require.NoError(t, err)
	assert.False(t, cfg.Watch.Enabled)
	assert.Equal(t, time.Second, cfg.Watch.DebounceDuration())
}

func TestValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"no aircraft", func(c *Config) { c.Aircraft.Preset = "" }, "aircraft.preset"},
		{"gallons as input unit", func(c *Config) { c.Units.Input = "gal" }, "units.input"},
		{"unknown fuel unit", func(c *Config) { c.Units.Fuel = "litres" }, "units.fuel"},
		{"unknown backend", func(c *Config) { c.Profiles.Backend = "redis" }, "profiles.backend"},
		{"sse transport", func(c *Config) { c.Server.Transport = "sse" }, "server.transport"},
		{"bad log level", func(c *Config) { c.Server.LogLevel = "trace" }, "server.log_level"},
		{"negative cache", func(c *Config) { c.Cache.Size = -1 }, "cache.size"},
		{"bad debounce", func(c *Config) { c.Watch.Debounce = "soon" }, "watch.debounce"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given: defaults with one bad field
			cfg := NewConfig()
			tt.mutate(cfg)

			// When: validating
			err := cfg.Validate()

			// Then: ERR_102 names the field
			require.Error(t, err)
			assert.Equal(t, wberrors.ErrCodeConfigInvalid, wberrors.GetCode(err))
			var wbErr *wberrors.WBError
			require.ErrorAs(t, err, &wbErr)
			assert.Equal(t, tt.field, wbErr.Details["field"])
		})
	}
}

func TestValidate_FileWithoutPreset_IsValid(t *testing.T) {
	cfg := NewConfig()
	cfg.Aircraft.Preset = ""
	cfg.Aircraft.File = "/tmp/plane.yaml"

	assert.NoError(t, cfg.Validate())
}

func TestProfilePath_DefaultsByBackend(t *testing.T) {
	assert.Equal(t, "profiles.json", filepath.Base(ProfilesConfig{Backend: BackendFile}.ProfilePath()))
	assert.Equal(t, "profiles.db", filepath.Base(ProfilesConfig{Backend: BackendSQLite}.ProfilePath()))
	assert.Equal(t, "/x/p.json", ProfilesConfig{Backend: BackendFile, Path: "/x/p.json"}.ProfilePath())
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "planes", "a.yaml"), AircraftConfig{File: "~/planes/a.yaml"}.AircraftFile())
	assert.Equal(t, "rel/a.yaml", AircraftConfig{File: "rel/a.yaml"}.AircraftFile())
	assert.Empty(t, AircraftConfig{}.AircraftFile())
}

func TestWriteYAML_RoundTripsThroughLoad(t *testing.T) {
	// Given: a customised config written to the user config path
	xdg := isolate(t)
	cfg := NewConfig()
	cfg.Aircraft.Preset = "c182-reference"
	cfg.Units.Fuel = "gal"
	path := filepath.Join(xdg, "wbadvisor", "config.yaml")

	// When: writing and loading back
	require.NoError(t, cfg.WriteYAML(path))
	loaded, err := Load(t.TempDir())

	// Then: values survive
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestMergeNewDefaults_FillsMissingOnly(t *testing.T) {
	// Given: an old user config with only units set
	cfg := &Config{Units: UnitsConfig{Input: "kg"}}

	// When: merging defaults
	added := cfg.MergeNewDefaults()

	// Then: missing fields are filled and existing ones kept
	assert.Equal(t, "kg", cfg.Units.Input)
	assert.Equal(t, DefaultPreset, cfg.Aircraft.Preset)
	assert.Equal(t, "lb", cfg.Units.Fuel)
	assert.True(t, cfg.Watch.Enabled)
	assert.Contains(t, added, "aircraft.preset")
	assert.Contains(t, added, "watch.debounce")
	assert.NotContains(t, added, "units.input")
	assert.Zero(t, cfg.Cache.Size)
	require.NoError(t, cfg.Validate())
}

func TestMergeNewDefaults_CompleteConfigUnchanged(t *testing.T) {
	cfg := NewConfig()
	cfg.Aircraft = AircraftConfig{File: "/planes/a.yaml"}

	added := cfg.MergeNewDefaults()

	assert.Empty(t, added)
	assert.Empty(t, cfg.Aircraft.Preset)
}
