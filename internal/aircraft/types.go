// Package aircraft holds the static aircraft data a weight-and-balance
// computation runs against: empty weight and CG, load stations with their
// arms and limits, and the certified CG envelope.
//
// A Config is immutable once validated. Hosts that reload configuration swap
// whole Config values through a Source rather than mutating one in place.
package aircraft

import (
	"github.com/Aman-CERP/wbadvisor/internal/units"
)

// StationID identifies a load station (e.g. "pilot", "fuel", "baggage_a").
type StationID string

// Station is a load position at a fixed arm from the reference datum.
type Station struct {
	ID    StationID `yaml:"id" json:"id" validate:"required"`
	Label string    `yaml:"label" json:"label"`
	// Arm is required; a station without one is malformed configuration.
	Arm *float64 `yaml:"arm" json:"arm" validate:"required"`
	// Max is the optional per-station advisory maximum in pounds.
	Max *float64 `yaml:"max,omitempty" json:"max,omitempty" validate:"omitempty,gt=0"`
	// Baggage marks the station as part of the aggregate baggage limit.
	Baggage bool `yaml:"baggage,omitempty" json:"baggage,omitempty"`
}

// ArmValue returns the station arm, or 0 when unset.
func (s Station) ArmValue() float64 {
	if s.Arm == nil {
		return 0
	}
	return *s.Arm
}

// Limits are the aggregate advisory limits.
type Limits struct {
	MaxWeight float64 `yaml:"max_weight" json:"max_weight" validate:"gt=0"`
	// MaxLandingWeight defaults to MaxWeight when zero.
	MaxLandingWeight float64 `yaml:"max_landing_weight,omitempty" json:"max_landing_weight,omitempty" validate:"gte=0"`
	// MaxBaggage is the combined limit of all baggage stations; zero means none.
	MaxBaggage float64 `yaml:"max_baggage,omitempty" json:"max_baggage,omitempty" validate:"gte=0"`
	// FuelCapacityGal, when set, caps the fuel station if it has no explicit max.
	FuelCapacityGal float64 `yaml:"fuel_capacity_gal,omitempty" json:"fuel_capacity_gal,omitempty" validate:"gte=0"`
}

// LandingLimit returns the effective maximum landing weight.
func (l Limits) LandingLimit() float64 {
	if l.MaxLandingWeight > 0 {
		return l.MaxLandingWeight
	}
	return l.MaxWeight
}

// Breakpoint is one (weight, cg) vertex of an envelope boundary.
type Breakpoint struct {
	Weight float64 `yaml:"weight" json:"weight" validate:"gt=0"`
	CG     float64 `yaml:"cg" json:"cg"`
}

// Envelope is the certified CG region: for every weight in
// [MinWeight, MaxWeight] the CG must lie between the forward and aft
// boundaries.
type Envelope struct {
	MinWeight float64  `yaml:"min_weight" json:"min_weight" validate:"gt=0"`
	MaxWeight float64  `yaml:"max_weight" json:"max_weight" validate:"gtfield=MinWeight"`
	Forward   Boundary `yaml:"forward" json:"forward" validate:"min=2,dive"`
	Aft       Boundary `yaml:"aft" json:"aft" validate:"min=2,dive"`
}

// Contains reports whether weight lies in the envelope's weight domain.
func (e Envelope) Contains(weight float64) bool {
	return weight >= e.MinWeight && weight <= e.MaxWeight
}

// Config is the full aircraft data set.
type Config struct {
	Name        string    `yaml:"name" json:"name" validate:"required"`
	Model       string    `yaml:"model,omitempty" json:"model,omitempty"`
	EmptyWeight float64   `yaml:"empty_weight" json:"empty_weight" validate:"gt=0"`
	EmptyCG     float64   `yaml:"empty_cg" json:"empty_cg"`
	FuelStation StationID `yaml:"fuel_station" json:"fuel_station" validate:"required"`
	Stations    []Station `yaml:"stations" json:"stations" validate:"min=1,dive"`
	Limits      Limits    `yaml:"limits" json:"limits"`
	Envelope    Envelope  `yaml:"envelope" json:"envelope"`
}

// EmptyMoment is derived from empty weight and CG, never stored.
func (c *Config) EmptyMoment() float64 {
	return c.EmptyWeight * c.EmptyCG
}

// Station looks up a station by ID.
func (c *Config) Station(id StationID) (Station, bool) {
	for _, s := range c.Stations {
		if s.ID == id {
			return s, true
		}
	}
	return Station{}, false
}

// FuelArm returns the arm of the fuel station.
func (c *Config) FuelArm() float64 {
	s, _ := c.Station(c.FuelStation)
	return s.ArmValue()
}

// StationIDs returns station IDs in configuration order.
func (c *Config) StationIDs() []StationID {
	ids := make([]StationID, 0, len(c.Stations))
	for _, s := range c.Stations {
		ids = append(ids, s.ID)
	}
	return ids
}

// StationMax returns the advisory maximum for a station in pounds.
// The fuel station falls back to the usable fuel capacity.
func (c *Config) StationMax(id StationID) (float64, bool) {
	s, ok := c.Station(id)
	if !ok {
		return 0, false
	}
	if s.Max != nil {
		return *s.Max, true
	}
	if id == c.FuelStation && c.Limits.FuelCapacityGal > 0 {
		return units.ToLbs(c.Limits.FuelCapacityGal, units.Gallons), true
	}
	return 0, false
}
