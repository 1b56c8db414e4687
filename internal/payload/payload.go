// Package payload is the input boundary of the advisor. Everything that
// crosses it is coerced into a State with finite, non-negative pound values,
// so the computation core never sees a partially invalid payload.
package payload

import (
	"math"
	"sort"

	"github.com/Aman-CERP/wbadvisor/internal/aircraft"
)

// State is a payload snapshot: per-station weights and the planned fuel
// burn, all in pounds.
type State struct {
	Weights         map[aircraft.StationID]float64 `json:"weights" yaml:"weights"`
	PlannedFuelBurn float64                        `json:"planned_fuel_burn" yaml:"planned_fuel_burn"`
}

// New returns an empty State.
func New() State {
	return State{Weights: make(map[aircraft.StationID]float64)}
}

// Weight returns the weight at a station, 0 when unset.
func (s State) Weight(id aircraft.StationID) float64 {
	return s.Weights[id]
}

// Set stores a station weight after sanitising it.
func (s *State) Set(id aircraft.StationID, lbs float64) {
	if s.Weights == nil {
		s.Weights = make(map[aircraft.StationID]float64)
	}
	s.Weights[id] = clamp(lbs)
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := State{
		Weights:         make(map[aircraft.StationID]float64, len(s.Weights)),
		PlannedFuelBurn: s.PlannedFuelBurn,
	}
	for id, w := range s.Weights {
		out.Weights[id] = w
	}
	return out
}

// Sanitize returns a copy with negative, NaN and infinite values set to 0.
func (s State) Sanitize() State {
	out := s.Clone()
	for id, w := range out.Weights {
		out.Weights[id] = clamp(w)
	}
	out.PlannedFuelBurn = clamp(out.PlannedFuelBurn)
	return out
}

// StationIDs returns the stations present in the snapshot, sorted.
func (s State) StationIDs() []aircraft.StationID {
	ids := make([]aircraft.StationID, 0, len(s.Weights))
	for id := range s.Weights {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
