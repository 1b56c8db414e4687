package balance

import (
	"github.com/Aman-CERP/wbadvisor/internal/aircraft"
	"github.com/Aman-CERP/wbadvisor/internal/payload"
)

// Report is the complete result of one computation pass.
type Report struct {
	Aircraft        string        `json:"aircraft"`
	Takeoff         LoadState     `json:"takeoff"`
	ZeroFuel        LoadState     `json:"zero_fuel"`
	Landing         LoadState     `json:"landing"`
	Stations        []StationLoad `json:"stations"`
	BaggageWeight   float64       `json:"baggage_weight"`
	PlannedFuelBurn float64       `json:"planned_fuel_burn"`
	Advisories      Advisories    `json:"advisories"`
}

// Safe reports whether all three states are inside the envelope and no
// advisory is raised.
func (r Report) Safe() bool {
	return r.Takeoff.WithinEnvelope && r.ZeroFuel.WithinEnvelope &&
		r.Landing.WithinEnvelope && !r.Advisories.Any()
}

// Calculator computes reports against one validated aircraft.
type Calculator struct {
	cfg *aircraft.Config
}

// NewCalculator validates cfg once. Compute cannot fail afterwards.
func NewCalculator(cfg *aircraft.Config) (*Calculator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{cfg: cfg}, nil
}

// Aircraft returns the configuration the calculator was built with.
func (c *Calculator) Aircraft() *aircraft.Config {
	return c.cfg
}

// Compute runs a full pass over a payload snapshot.
func (c *Calculator) Compute(p payload.State) Report {
	p = p.Sanitize()
	cfg := c.cfg

	loads := StationLoads(cfg, p)
	takeoff := sumLoads(cfg, loads)
	zeroFuel, landing := Derive(cfg, p, takeoff)

	env := cfg.Envelope
	takeoff = Classify(env, takeoff)
	zeroFuel = Classify(env, zeroFuel)
	landing = Classify(env, landing)

	return Report{
		Aircraft:        cfg.Name,
		Takeoff:         takeoff,
		ZeroFuel:        zeroFuel,
		Landing:         landing,
		Stations:        loads,
		BaggageWeight:   baggageWeight(loads),
		PlannedFuelBurn: p.PlannedFuelBurn,
		Advisories:      CheckLimits(cfg, p, loads, takeoff, zeroFuel, landing),
	}
}

// ComputeReport validates cfg and computes a report for p. The only error
// is a malformed aircraft configuration.
func ComputeReport(cfg *aircraft.Config, p payload.State) (Report, error) {
	calc, err := NewCalculator(cfg)
	if err != nil {
		return Report{}, err
	}
	return calc.Compute(p), nil
}
