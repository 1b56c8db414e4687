package balance

import (
	"github.com/Aman-CERP/wbadvisor/internal/aircraft"
	"github.com/Aman-CERP/wbadvisor/internal/payload"
)

// LoadState is the mass properties of the aircraft in one condition,
// with its envelope classification.
type LoadState struct {
	Weight float64 `json:"weight"`
	Moment float64 `json:"moment"`
	// CG equals the empty CG when Weight is not positive.
	CG             float64 `json:"cg"`
	WithinEnvelope bool    `json:"within_envelope"`

	InWeightRange bool `json:"in_weight_range"`
	// ForwardLimit and AftLimit are the envelope limits at Weight, zero
	// when Weight is outside the envelope domain.
	ForwardLimit float64 `json:"forward_limit"`
	AftLimit     float64 `json:"aft_limit"`
}

// StationLoad is one configured station's contribution to the take-off state.
type StationLoad struct {
	ID     aircraft.StationID `json:"id"`
	Label  string             `json:"label,omitempty"`
	Weight float64            `json:"weight"`
	Arm    float64            `json:"arm"`
	Moment float64            `json:"moment"`
	// Max is zero when the station has no advisory maximum.
	Max       float64 `json:"max,omitempty"`
	OverLimit bool    `json:"over_limit"`
	Baggage   bool    `json:"baggage,omitempty"`
}

// StationLoads computes per-station moments in configuration order.
// Payload entries for stations the aircraft does not have are skipped.
func StationLoads(cfg *aircraft.Config, p payload.State) []StationLoad {
	loads := make([]StationLoad, 0, len(cfg.Stations))
	for _, s := range cfg.Stations {
		w := p.Weight(s.ID)
		arm := s.ArmValue()
		load := StationLoad{
			ID:      s.ID,
			Label:   s.Label,
			Weight:  w,
			Arm:     arm,
			Moment:  w * arm,
			Baggage: s.Baggage,
		}
		if max, ok := cfg.StationMax(s.ID); ok {
			load.Max = max
			load.OverLimit = w > max
		}
		loads = append(loads, load)
	}
	return loads
}

// Aggregate computes the take-off weight, moment and CG: empty aircraft
// plus every station. The result is not yet classified.
func Aggregate(cfg *aircraft.Config, p payload.State) LoadState {
	return sumLoads(cfg, StationLoads(cfg, p))
}

func sumLoads(cfg *aircraft.Config, loads []StationLoad) LoadState {
	weight := cfg.EmptyWeight
	moment := cfg.EmptyMoment()
	for _, l := range loads {
		weight += l.Weight
		moment += l.Moment
	}
	return newLoadState(cfg, weight, moment)
}

func newLoadState(cfg *aircraft.Config, weight, moment float64) LoadState {
	cg := cfg.EmptyCG
	if weight > 0 {
		cg = moment / weight
	}
	return LoadState{Weight: weight, Moment: moment, CG: cg}
}
