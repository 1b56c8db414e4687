// Package units converts payload amounts to and from pounds.
//
// Conversions use fixed factors and never round; rounding is a presentation
// concern. Gallons are only meaningful for fuel, converted at a constant
// avgas density.
package units

import (
	"strings"

	wberrors "github.com/Aman-CERP/wbadvisor/internal/errors"
)

// Unit is a mass or fuel-volume unit accepted at the input boundary.
type Unit string

const (
	// Pounds is the unit every computation runs in.
	Pounds Unit = "lb"
	// Kilograms converts at LbsPerKg.
	Kilograms Unit = "kg"
	// Gallons (US) of fuel convert at FuelLbsPerGal.
	Gallons Unit = "gal"
)

const (
	// LbsPerKg is the kilogram to pound factor.
	LbsPerKg = 2.20462

	// FuelLbsPerGal is the assumed avgas density in pounds per US gallon.
	FuelLbsPerGal = 6.0
)

// ToLbs converts amount expressed in unit to pounds.
// Unknown units are treated as pounds.
func ToLbs(amount float64, unit Unit) float64 {
	switch unit {
	case Kilograms:
		return amount * LbsPerKg
	case Gallons:
		return amount * FuelLbsPerGal
	default:
		return amount
	}
}

// FromLbs converts a pound amount to unit.
// Unknown units are treated as pounds.
func FromLbs(lbs float64, unit Unit) float64 {
	switch unit {
	case Kilograms:
		return lbs / LbsPerKg
	case Gallons:
		return lbs / FuelLbsPerGal
	default:
		return lbs
	}
}

// Convert converts amount between two units via pounds.
func Convert(amount float64, from, to Unit) float64 {
	return FromLbs(ToLbs(amount, from), to)
}

// ParseUnit parses a unit name or common alias.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lb", "lbs", "pound", "pounds":
		return Pounds, nil
	case "kg", "kgs", "kilogram", "kilograms":
		return Kilograms, nil
	case "gal", "gals", "gallon", "gallons", "usg":
		return Gallons, nil
	default:
		return "", wberrors.New(wberrors.ErrCodeInvalidUnit, "unknown unit: "+s, nil).
			WithSuggestion("use lb, kg or gal")
	}
}

// IsMass reports whether u measures mass rather than fuel volume.
func (u Unit) IsMass() bool {
	return u == Pounds || u == Kilograms
}

// String returns the unit symbol.
func (u Unit) String() string {
	return string(u)
}
