// Package balance computes weight and balance reports.
//
// A computation pass runs in a fixed order:
//
//	payload -> Aggregate -> Derive -> Classify (per state) -> CheckLimits
//
// Every step is a pure function of the aircraft configuration and one
// payload snapshot. Nothing is cached between passes except through the
// optional Cache, which is keyed by the snapshot itself.
package balance
