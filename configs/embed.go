// Package configs provides embedded configuration templates and aircraft
// data sets for wbadvisor.
//
// Templates are embedded at build time using //go:embed so they ship with
// every binary:
//   - user-config.example.yaml: written by `wbadvisor config init`
//   - aircraft/*.yaml: aircraft presets selectable with --aircraft or
//     aircraft.preset in the configuration
//
// Configuration hierarchy (see internal/config Load()):
//  1. Hardcoded defaults
//  2. User config (~/.config/wbadvisor/config.yaml)
//  3. Project config (.wbadvisor.yaml)
//  4. Environment variables (WBADVISOR_*)
package configs

import "embed"

// UserConfigTemplate is the template for user-level configuration.
//
//go:embed user-config.example.yaml
var UserConfigTemplate string

// AircraftPresets holds the embedded aircraft data sets, one YAML file per
// preset under aircraft/.
//
//go:embed aircraft/*.yaml
var AircraftPresets embed.FS
