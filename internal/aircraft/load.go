package aircraft

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/wbadvisor/configs"
	"github.com/Aman-CERP/wbadvisor/internal/config"
	wberrors "github.com/Aman-CERP/wbadvisor/internal/errors"
)

const presetDir = "aircraft"

// Parse decodes and validates an aircraft YAML document.
// Unknown keys are rejected so typos in limits cannot silently vanish.
func Parse(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, wberrors.AircraftError("aircraft file is empty", err)
		}
		return nil, wberrors.AircraftError("failed to parse aircraft file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads an aircraft file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, wberrors.New(wberrors.ErrCodeConfigNotFound, "aircraft file not found", err).
				WithDetail("path", path)
		}
		return nil, wberrors.AircraftError("failed to read aircraft file", err).WithDetail("path", path)
	}

	cfg, err := Parse(data)
	if err != nil {
		var wbErr *wberrors.WBError
		if errors.As(err, &wbErr) {
			return nil, wbErr.WithDetail("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

// Preset loads an embedded aircraft data set by name.
func Preset(name string) (*Config, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	data, err := configs.AircraftPresets.ReadFile(path.Join(presetDir, name+".yaml"))
	if err != nil {
		return nil, wberrors.New(wberrors.ErrCodeConfigNotFound,
			fmt.Sprintf("unknown aircraft preset %q", name), err).
			WithSuggestion("available presets: " + strings.Join(Presets(), ", "))
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("embedded preset %s: %w", name, err)
	}
	return cfg, nil
}

// Presets lists the embedded preset names, sorted.
func Presets() []string {
	entries, err := fs.ReadDir(configs.AircraftPresets, presetDir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if n, ok := strings.CutSuffix(e.Name(), ".yaml"); ok && !e.IsDir() {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

// Resolve loads the aircraft selected by configuration.
// A file wins over a preset.
func Resolve(cfg config.AircraftConfig) (*Config, error) {
	if file := cfg.AircraftFile(); file != "" {
		return Load(file)
	}
	preset := cfg.Preset
	if preset == "" {
		preset = config.DefaultPreset
	}
	return Preset(preset)
}
