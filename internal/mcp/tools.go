package mcp

import (
	"github.com/Aman-CERP/wbadvisor/internal/aircraft"
	"github.com/Aman-CERP/wbadvisor/internal/balance"
)

// ComputeReportInput defines the input schema for the compute_report tool.
type ComputeReportInput struct {
	Weights         map[string]float64 `json:"weights" jsonschema:"weight per station id, see aircraft_info for ids"`
	PlannedFuelBurn float64            `json:"planned_fuel_burn,omitempty" jsonschema:"fuel expected to burn before landing, in fuel_unit"`
	Unit            string             `json:"unit,omitempty" jsonschema:"unit for non-fuel stations: lb or kg, default from config"`
	FuelUnit        string             `json:"fuel_unit,omitempty" jsonschema:"unit for fuel and burn: lb, kg or gal, default from config"`
}

// ReportOutput defines the output schema for tools that return a report.
// All weights are in pounds and arms in inches.
type ReportOutput struct {
	Report balance.Report `json:"report"`
	Safe   bool           `json:"safe"`
}

// AircraftInfoInput defines the input schema for the aircraft_info tool (no parameters).
type AircraftInfoInput struct{}

// AircraftInfoOutput describes the aircraft the server computes against.
type AircraftInfoOutput struct {
	Name        string            `json:"name"`
	Model       string            `json:"model,omitempty"`
	EmptyWeight float64           `json:"empty_weight"`
	EmptyCG     float64           `json:"empty_cg"`
	EmptyMoment float64           `json:"empty_moment"`
	FuelStation string            `json:"fuel_station"`
	Stations    []StationInfo     `json:"stations"`
	Limits      aircraft.Limits   `json:"limits"`
	Envelope    aircraft.Envelope `json:"envelope"`
	Presets     []string          `json:"presets"`
}

// StationInfo is one load station as exposed to clients.
type StationInfo struct {
	ID      string  `json:"id"`
	Label   string  `json:"label,omitempty"`
	Arm     float64 `json:"arm"`
	Max     float64 `json:"max,omitempty"`
	Baggage bool    `json:"baggage,omitempty"`
}

// ListProfilesInput defines the input schema for the list_profiles tool (no parameters).
type ListProfilesInput struct{}

// ListProfilesOutput lists saved profiles.
type ListProfilesOutput struct {
	Profiles []ProfileOutput `json:"profiles"`
}

// ProfileOutput is a saved profile with weights in pounds.
type ProfileOutput struct {
	Name            string             `json:"name"`
	Weights         map[string]float64 `json:"weights"`
	PlannedFuelBurn float64            `json:"planned_fuel_burn"`
	SavedAt         string             `json:"saved_at" jsonschema:"RFC 3339 time of the last save"`
}

// LoadProfileInput defines the input schema for the load_profile tool.
type LoadProfileInput struct {
	Name string `json:"name" jsonschema:"name of a saved profile"`
}

// LoadProfileOutput is a profile together with its report against the
// current aircraft.
type LoadProfileOutput struct {
	Profile ProfileOutput  `json:"profile"`
	Report  balance.Report `json:"report"`
	Safe    bool           `json:"safe"`
}

// SaveProfileInput defines the input schema for the save_profile tool.
type SaveProfileInput struct {
	Name            string             `json:"name" jsonschema:"profile name; an existing profile with this name is replaced"`
	Weights         map[string]float64 `json:"weights" jsonschema:"weight per station id"`
	PlannedFuelBurn float64            `json:"planned_fuel_burn,omitempty" jsonschema:"fuel expected to burn before landing, in fuel_unit"`
	Unit            string             `json:"unit,omitempty" jsonschema:"unit for non-fuel stations: lb or kg"`
	FuelUnit        string             `json:"fuel_unit,omitempty" jsonschema:"unit for fuel and burn: lb, kg or gal"`
}

// SaveProfileOutput confirms a save.
type SaveProfileOutput struct {
	Profile ProfileOutput  `json:"profile"`
	Report  balance.Report `json:"report"`
	Safe    bool           `json:"safe"`
}

// OptimizationBriefInput defines the input schema for the optimization_brief tool.
type OptimizationBriefInput struct {
	Weights         map[string]float64 `json:"weights" jsonschema:"weight per station id"`
	PlannedFuelBurn float64            `json:"planned_fuel_burn,omitempty" jsonschema:"fuel expected to burn before landing, in fuel_unit"`
	Unit            string             `json:"unit,omitempty" jsonschema:"unit for non-fuel stations: lb or kg"`
	FuelUnit        string             `json:"fuel_unit,omitempty" jsonschema:"unit for fuel and burn: lb, kg or gal"`
}

// Station roles in an optimization brief.
const (
	RoleOccupant = "occupant"
	RoleFuel     = "fuel"
	RoleBaggage  = "baggage"
)

// OptimizationBriefOutput is the loading summary a client needs to suggest
// a better distribution. Weights are in pounds, arms and CG in inches.
type OptimizationBriefOutput struct {
	Aircraft       string  `json:"aircraft"`
	OccupantWeight float64 `json:"occupant_weight"`
	FuelWeight     float64 `json:"fuel_weight"`
	BaggageWeight  float64 `json:"baggage_weight"`
	TakeoffWeight  float64 `json:"takeoff_weight"`
	CurrentCG      float64 `json:"current_cg"`
	// InWeightRange is false when the take-off weight is outside the
	// envelope; the CG limits and margins are then zero.
	InWeightRange  bool               `json:"in_weight_range"`
	ForwardLimit   float64            `json:"forward_limit"`
	AftLimit       float64            `json:"aft_limit"`
	ForwardMargin  float64            `json:"forward_margin"`
	AftMargin      float64            `json:"aft_margin"`
	MaxWeight      float64            `json:"max_weight"`
	WeightMargin   float64            `json:"weight_margin"`
	WithinEnvelope bool               `json:"within_envelope"`
	Safe           bool               `json:"safe"`
	Stations       []BriefStation     `json:"stations"`
	Advisories     balance.Advisories `json:"advisories"`
}

// BriefStation is one station's share of the load.
type BriefStation struct {
	ID     string  `json:"id"`
	Label  string  `json:"label,omitempty"`
	Role   string  `json:"role"`
	Weight float64 `json:"weight"`
	Arm    float64 `json:"arm"`
	// Headroom is the weight still allowed at the station; omitted when the
	// station has no maximum.
	Headroom *float64 `json:"headroom,omitempty"`
}
