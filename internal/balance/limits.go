package balance

import (
	"github.com/Aman-CERP/wbadvisor/internal/aircraft"
	"github.com/Aman-CERP/wbadvisor/internal/payload"
)

// Advisories are limit flags. They inform; they never block a report.
type Advisories struct {
	OverMaxWeight          bool                 `json:"over_max_weight"`
	OverMaxLandingWeight   bool                 `json:"over_max_landing_weight"`
	OverBaggageLimit       bool                 `json:"over_baggage_limit"`
	StationsOverLimit      []aircraft.StationID `json:"stations_over_limit,omitempty"`
	NegativeZeroFuelWeight bool                 `json:"negative_zero_fuel_weight"`
	NegativeLandingWeight  bool                 `json:"negative_landing_weight"`
	BurnExceedsFuel        bool                 `json:"burn_exceeds_fuel"`
	// IgnoredStations are payload entries for stations the aircraft lacks.
	IgnoredStations []aircraft.StationID `json:"ignored_stations,omitempty"`
}

// Any reports whether any advisory is raised.
func (a Advisories) Any() bool {
	return a.OverMaxWeight || a.OverMaxLandingWeight || a.OverBaggageLimit ||
		len(a.StationsOverLimit) > 0 || a.NegativeZeroFuelWeight ||
		a.NegativeLandingWeight || a.BurnExceedsFuel || len(a.IgnoredStations) > 0
}

// CheckLimits raises advisories for one computation pass. All comparisons
// are strict: a value exactly at its limit is not over it.
func CheckLimits(cfg *aircraft.Config, p payload.State, loads []StationLoad, takeoff, zeroFuel, landing LoadState) Advisories {
	var adv Advisories

	for _, l := range loads {
		if l.OverLimit {
			adv.StationsOverLimit = append(adv.StationsOverLimit, l.ID)
		}
	}

	if cfg.Limits.MaxBaggage > 0 && baggageWeight(loads) > cfg.Limits.MaxBaggage {
		adv.OverBaggageLimit = true
	}

	adv.OverMaxWeight = takeoff.Weight > cfg.Limits.MaxWeight
	adv.OverMaxLandingWeight = landing.Weight > cfg.Limits.LandingLimit()
	adv.NegativeZeroFuelWeight = zeroFuel.Weight < 0
	adv.NegativeLandingWeight = landing.Weight < 0
	adv.BurnExceedsFuel = p.PlannedFuelBurn > p.Weight(cfg.FuelStation)

	for _, id := range p.StationIDs() {
		if _, ok := cfg.Station(id); !ok {
			adv.IgnoredStations = append(adv.IgnoredStations, id)
		}
	}
	return adv
}

func baggageWeight(loads []StationLoad) float64 {
	var total float64
	for _, l := range loads {
		if l.Baggage {
			total += l.Weight
		}
	}
	return total
}
