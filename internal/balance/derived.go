package balance

import (
	"github.com/Aman-CERP/wbadvisor/internal/aircraft"
	"github.com/Aman-CERP/wbadvisor/internal/payload"
)

// Derive computes the zero-fuel and landing states from take-off.
//
// Zero-fuel removes everything loaded at the fuel station. Landing removes
// only the planned burn, at the fuel arm. Negative weights are returned as
// is; CheckLimits flags them.
func Derive(cfg *aircraft.Config, p payload.State, takeoff LoadState) (zeroFuel, landing LoadState) {
	arm := cfg.FuelArm()

	fuel := p.Weight(cfg.FuelStation)
	zeroFuel = newLoadState(cfg, takeoff.Weight-fuel, takeoff.Moment-fuel*arm)

	burn := p.PlannedFuelBurn
	landing = newLoadState(cfg, takeoff.Weight-burn, takeoff.Moment-burn*arm)

	return zeroFuel, landing
}
