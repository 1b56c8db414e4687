package payload

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/Aman-CERP/wbadvisor/internal/aircraft"
	wberrors "github.com/Aman-CERP/wbadvisor/internal/errors"
	"github.com/Aman-CERP/wbadvisor/internal/units"
)

// Coerce parses user-entered numeric text. Anything unparseable, negative,
// NaN or infinite becomes 0; a blank field is an empty station, not an error.
func Coerce(text string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0
	}
	return clamp(v)
}

// Units carries the default units applied to entries without a suffix.
type Units struct {
	// Input applies to every station except fuel.
	Input units.Unit
	// Fuel applies to the fuel station and the planned burn.
	Fuel units.Unit
}

// DefaultUnits enters everything in pounds.
var DefaultUnits = Units{Input: units.Pounds, Fuel: units.Pounds}

// ParseAmount splits "80kg" into a coerced amount and its unit. The unit is
// def when there is no suffix. Text without any digit is a malformed number
// and coerces to 0 in the default unit. Only ASCII digits count as a
// number; other scripts' digits are malformed input, not a unit.
func ParseAmount(text string, def units.Unit) (float64, units.Unit, error) {
	text = strings.TrimSpace(text)
	last := strings.LastIndexFunc(text, isASCIIDigit)
	if last < 0 {
		return 0, def, nil
	}
	// Keep a trailing decimal point with the number ("12." is 12).
	split := last + 1
	if split < len(text) && text[split] == '.' {
		split++
	}
	number, suffix := text[:split], strings.TrimSpace(text[split:])
	if suffix == "" {
		return Coerce(number), def, nil
	}
	if strings.IndexFunc(suffix, unicode.IsDigit) >= 0 {
		return 0, def, nil
	}
	unit, err := units.ParseUnit(suffix)
	if err != nil {
		return 0, "", err
	}
	return Coerce(number), unit, nil
}

func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }

// ParseEntry parses "station=amount[unit]" against cfg and returns the
// station and its weight in pounds. Gallons are accepted for the fuel
// station only.
func ParseEntry(cfg *aircraft.Config, entry string, u Units) (aircraft.StationID, float64, error) {
	name, value, ok := strings.Cut(entry, "=")
	if !ok {
		return "", 0, wberrors.ValidationError(fmt.Sprintf("expected station=weight, got %q", entry), nil).
			WithSuggestion("write entries like pilot=170 or fuel=50gal")
	}

	id := aircraft.StationID(strings.TrimSpace(name))
	if _, found := cfg.Station(id); !found {
		return "", 0, wberrors.New(wberrors.ErrCodeUnknownStation,
			fmt.Sprintf("unknown station %q", id), nil).
			WithDetail("aircraft", cfg.Name).
			WithSuggestion("stations: " + joinIDs(cfg.StationIDs()))
	}

	isFuel := id == cfg.FuelStation
	def := u.Input
	if isFuel {
		def = u.Fuel
	}

	amount, unit, err := ParseAmount(value, def)
	if err != nil {
		return "", 0, err
	}
	if unit == units.Gallons && !isFuel {
		return "", 0, wberrors.New(wberrors.ErrCodeInvalidUnit,
			fmt.Sprintf("gallons apply to fuel only, not %q", id), nil).
			WithSuggestion("enter " + string(id) + " in lb or kg")
	}
	return id, units.ToLbs(amount, unit), nil
}

// Parse builds a State from station entries and an optional burn amount.
// Later entries for the same station replace earlier ones.
func Parse(cfg *aircraft.Config, entries []string, burn string, u Units) (State, error) {
	st := New()
	for _, e := range entries {
		id, lbs, err := ParseEntry(cfg, e, u)
		if err != nil {
			return State{}, err
		}
		st.Set(id, lbs)
	}
	if burn != "" {
		amount, unit, err := ParseAmount(burn, u.Fuel)
		if err != nil {
			return State{}, err
		}
		st.PlannedFuelBurn = clamp(units.ToLbs(amount, unit))
	}
	return st, nil
}

func joinIDs(ids []aircraft.StationID) string {
	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = string(id)
	}
	return strings.Join(s, ", ")
}
