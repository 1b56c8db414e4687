package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	wberrors "github.com/Aman-CERP/wbadvisor/internal/errors"
	"github.com/Aman-CERP/wbadvisor/internal/units"
)

// Profile store backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// DefaultPreset is the embedded aircraft used when nothing else is configured.
const DefaultPreset = "c182t"

// Config represents the complete wbadvisor configuration.
type Config struct {
	Version  int            `yaml:"version" json:"version"`
	Aircraft AircraftConfig `yaml:"aircraft" json:"aircraft"`
	Units    UnitsConfig    `yaml:"units" json:"units"`
	Profiles ProfilesConfig `yaml:"profiles" json:"profiles"`
	Server   ServerConfig   `yaml:"server" json:"server"`
	Cache    CacheConfig    `yaml:"cache" json:"cache"`
	Watch    WatchConfig    `yaml:"watch" json:"watch"`
}

// AircraftConfig selects the aircraft data set.
// File takes precedence over Preset when both are set.
type AircraftConfig struct {
	Preset string `yaml:"preset" json:"preset"`
	File   string `yaml:"file,omitempty" json:"file,omitempty"`
}

// UnitsConfig sets the default units for entries without a suffix.
type UnitsConfig struct {
	// Input applies to every station except fuel (lb or kg).
	Input string `yaml:"input" json:"input"`
	// Fuel applies to the fuel station and planned burn (lb, kg or gal).
	Fuel string `yaml:"fuel" json:"fuel"`
}

// ProfilesConfig configures saved payload profiles.
type ProfilesConfig struct {
	Backend string `yaml:"backend" json:"backend"`
	// Path defaults to ~/.wbadvisor/profiles.json or profiles.db by backend.
	Path string `yaml:"path,omitempty" json:"path,omitempty"`
}

// ServerConfig configures the MCP server.
type ServerConfig struct {
	Transport string `yaml:"transport" json:"transport"`
	LogLevel  string `yaml:"log_level" json:"log_level"`
}

// CacheConfig configures report memoisation.
type CacheConfig struct {
	// Size is the number of reports kept. 0 disables the cache.
	Size int `yaml:"size" json:"size"`
}

// WatchConfig configures hot reload of the aircraft file.
type WatchConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Debounce string `yaml:"debounce" json:"debounce"`
}

// NewConfig creates a new configuration with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Aircraft: AircraftConfig{
			Preset: DefaultPreset,
		},
		Units: UnitsConfig{
			Input: string(units.Pounds),
			Fuel:  string(units.Pounds),
		},
		Profiles: ProfilesConfig{
			Backend: BackendFile,
		},
		Server: ServerConfig{
			Transport: "stdio",
			LogLevel:  "info",
		},
		Cache: CacheConfig{
			Size: 256,
		},
		Watch: WatchConfig{
			Enabled:  true,
			Debounce: "250ms",
		},
	}
}

// DataDir returns ~/.wbadvisor, the home of profiles and logs.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".wbadvisor")
	}
	return filepath.Join(home, ".wbadvisor")
}

// ProfilePath returns the configured profile store path or the
// backend-specific default.
func (p ProfilesConfig) ProfilePath() string {
	if p.Path != "" {
		return expandHome(p.Path)
	}
	if p.Backend == BackendSQLite {
		return filepath.Join(DataDir(), "profiles.db")
	}
	return filepath.Join(DataDir(), "profiles.json")
}

// DebounceDuration parses Debounce, falling back to 250ms.
func (w WatchConfig) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(w.Debounce)
	if err != nil || d <= 0 {
		return 250 * time.Millisecond
	}
	return d
}

// AircraftFile returns the aircraft file path with ~ expanded, or "".
func (a AircraftConfig) AircraftFile() string {
	if a.File == "" {
		return ""
	}
	return expandHome(a.File)
}

// GetUserConfigPath returns the path to the user configuration file.
// Uses $XDG_CONFIG_HOME/wbadvisor/config.yaml when set, otherwise
// ~/.config/wbadvisor/config.yaml.
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "wbadvisor", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "wbadvisor", "config.yaml")
	}
	return filepath.Join(home, ".config", "wbadvisor", "config.yaml")
}

// UserConfigExists reports whether a user configuration file is present.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

// LoadUserConfig loads the user configuration file.
// Returns nil config and nil error if the file doesn't exist.
func LoadUserConfig() (*Config, error) {
	configPath := GetUserConfigPath()
	if !fileExists(configPath) {
		return nil, nil
	}

	cfg := &Config{}
	if err := cfg.loadYAML(configPath); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load resolves the configuration for dir.
//
// Precedence, lowest to highest:
//  1. Defaults
//  2. User config
//  3. Project config (.wbadvisor.yaml or .wbadvisor.yml in dir)
//  4. WBADVISOR_* environment variables
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	userCfg, err := LoadUserConfig()
	if err != nil {
		return nil, err
	}
	if userCfg != nil {
		cfg.mergeWith(userCfg)
	}

	if err := cfg.loadFromFile(dir); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ProjectConfigName is the project config file looked up in the working
// directory. The .yml spelling is also accepted.
const ProjectConfigName = ".wbadvisor.yaml"

// ProjectConfigPath returns the project config file in dir, or "" when
// there is none.
func ProjectConfigPath(dir string) string {
	for _, name := range []string{ProjectConfigName, ".wbadvisor.yml"} {
		if path := filepath.Join(dir, name); fileExists(path) {
			return path
		}
	}
	return ""
}

// LoadProjectConfig reads the project config in dir as written, without
// defaults. It returns nil and "" when dir has none.
func LoadProjectConfig(dir string) (*Config, string, error) {
	path := ProjectConfigPath(dir)
	if path == "" {
		return nil, "", nil
	}
	cfg := &Config{}
	if err := cfg.loadYAML(path); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

func (c *Config) loadFromFile(dir string) error {
	parsed, _, err := LoadProjectConfig(dir)
	if err != nil || parsed == nil {
		return err
	}
	c.mergeWith(parsed)
	return nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return wberrors.ConfigError("failed to read config file", err).WithDetail("path", path)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return wberrors.ConfigError("failed to parse config file", err).
			WithDetail("path", path).
			WithSuggestion("check the YAML syntax or regenerate it with 'wbadvisor config init --force'")
	}
	return nil
}

// mergeWith overlays the non-zero values of other onto c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}

	if other.Aircraft.Preset != "" {
		c.Aircraft.Preset = other.Aircraft.Preset
	}
	if other.Aircraft.File != "" {
		c.Aircraft.File = other.Aircraft.File
	}

	if other.Units.Input != "" {
		c.Units.Input = other.Units.Input
	}
	if other.Units.Fuel != "" {
		c.Units.Fuel = other.Units.Fuel
	}

	if other.Profiles.Backend != "" {
		c.Profiles.Backend = other.Profiles.Backend
	}
	if other.Profiles.Path != "" {
		c.Profiles.Path = other.Profiles.Path
	}

	if other.Server.Transport != "" {
		c.Server.Transport = other.Server.Transport
	}
	if other.Server.LogLevel != "" {
		c.Server.LogLevel = other.Server.LogLevel
	}

	if other.Cache.Size != 0 {
		c.Cache.Size = other.Cache.Size
	}

	// enabled is a bool; only trust it when the section was written out.
	if other.Watch.Debounce != "" {
		c.Watch.Debounce = other.Watch.Debounce
		c.Watch.Enabled = other.Watch.Enabled
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("WBADVISOR_AIRCRAFT"); v != "" {
		c.Aircraft.Preset = v
	}
	if v := os.Getenv("WBADVISOR_AIRCRAFT_FILE"); v != "" {
		c.Aircraft.File = v
	}
	if v := os.Getenv("WBADVISOR_INPUT_UNIT"); v != "" {
		c.Units.Input = v
	}
	if v := os.Getenv("WBADVISOR_FUEL_UNIT"); v != "" {
		c.Units.Fuel = v
	}
	if v := os.Getenv("WBADVISOR_PROFILE_BACKEND"); v != "" {
		c.Profiles.Backend = v
	}
	if v := os.Getenv("WBADVISOR_PROFILE_PATH"); v != "" {
		c.Profiles.Path = v
	}
	if v := os.Getenv("WBADVISOR_LOG_LEVEL"); v != "" {
		c.Server.LogLevel = v
	}
	if v := os.Getenv("WBADVISOR_CACHE_SIZE"); v != "" {
		// -1 is not a size; invalid values leave the file setting in place.
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 0 {
			c.Cache.Size = n
		}
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	invalid := func(field, value, allowed string) error {
		return wberrors.New(wberrors.ErrCodeConfigInvalid,
			fmt.Sprintf("%s must be %s, got %q", field, allowed, value), nil).
			WithDetail("field", field)
	}

	if c.Aircraft.Preset == "" && c.Aircraft.File == "" {
		return invalid("aircraft.preset", "", "set when aircraft.file is empty")
	}

	in, err := units.ParseUnit(c.Units.Input)
	if err != nil || !in.IsMass() {
		return invalid("units.input", c.Units.Input, "'lb' or 'kg'")
	}
	if _, err := units.ParseUnit(c.Units.Fuel); err != nil {
		return invalid("units.fuel", c.Units.Fuel, "'lb', 'kg' or 'gal'")
	}

	switch strings.ToLower(c.Profiles.Backend) {
	case BackendFile, BackendSQLite:
	default:
		return invalid("profiles.backend", c.Profiles.Backend, "'file' or 'sqlite'")
	}

	if strings.ToLower(c.Server.Transport) != "stdio" {
		return invalid("server.transport", c.Server.Transport, "'stdio'")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Server.LogLevel)] {
		return invalid("server.log_level", c.Server.LogLevel, "'debug', 'info', 'warn' or 'error'")
	}

	if c.Cache.Size < 0 {
		return invalid("cache.size", strconv.Itoa(c.Cache.Size), "non-negative")
	}

	if c.Watch.Debounce != "" {
		if d, err := time.ParseDuration(c.Watch.Debounce); err != nil || d <= 0 {
			return invalid("watch.debounce", c.Watch.Debounce, "a positive duration such as '250ms'")
		}
	}

	return nil
}

// MergeNewDefaults fills sections missing from an existing user config
// with defaults and returns the names of the fields it added. Existing
// values are never changed.
func (c *Config) MergeNewDefaults() []string {
	defaults := NewConfig()
	var added []string

	fill := func(name string, dst *string, def string) {
		if *dst == "" {
			*dst = def
			added = append(added, name)
		}
	}

	if c.Version == 0 {
		c.Version = defaults.Version
		added = append(added, "version")
	}
	if c.Aircraft.File == "" {
		fill("aircraft.preset", &c.Aircraft.Preset, defaults.Aircraft.Preset)
	}
	fill("units.input", &c.Units.Input, defaults.Units.Input)
	fill("units.fuel", &c.Units.Fuel, defaults.Units.Fuel)
	fill("profiles.backend", &c.Profiles.Backend, defaults.Profiles.Backend)
	fill("server.transport", &c.Server.Transport, defaults.Server.Transport)
	fill("server.log_level", &c.Server.LogLevel, defaults.Server.LogLevel)

	// cache.size 0 is a setting (disabled), so it is left alone.

	// A watch section without debounce was never written out.
	if c.Watch.Debounce == "" {
		c.Watch = defaults.Watch
		added = append(added, "watch.enabled", "watch.debounce")
	}

	return added
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return wberrors.InternalError("failed to marshal config", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return wberrors.ConfigError("failed to create config directory", err).WithDetail("path", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return wberrors.ConfigError("failed to write config file", err).WithDetail("path", path)
	}
	return nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
