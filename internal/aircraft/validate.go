package aircraft

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"

	wberrors "github.com/Aman-CERP/wbadvisor/internal/errors"
)

// configValidate checks struct-level rules declared in validate tags.
var configValidate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration and returns a fatal
// ERR_103_AIRCRAFT_INVALID error describing every problem found.
//
// Beyond the struct tags it enforces:
//   - every number finite (NaN compares false and would slip past the
//     range checks below)
//   - unique station IDs and an existing fuel station
//   - breakpoints strictly ascending by weight (a repeated weight is a
//     zero-width segment and cannot be interpolated)
//   - each boundary covering [MinWeight, MaxWeight]
//   - the forward limit not aft of the aft limit anywhere in the domain
func (c *Config) Validate() error {
	if c == nil {
		return wberrors.AircraftError("aircraft configuration is missing", nil)
	}

	var problems []string

	if err := configValidate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				problems = append(problems, describeFieldError(fe))
			}
		} else {
			problems = append(problems, err.Error())
		}
	}

	problems = append(problems, c.checkFinite()...)
	problems = append(problems, c.checkStations()...)
	problems = append(problems, checkBoundary("forward", c.Envelope.Forward, c.Envelope)...)
	problems = append(problems, checkBoundary("aft", c.Envelope.Aft, c.Envelope)...)

	// Crossing checks interpolate, which is only defined on sound boundaries.
	if len(problems) == 0 {
		problems = append(problems, checkCrossing(c.Envelope)...)
	}

	if len(problems) == 0 {
		return nil
	}

	name := c.Name
	if name == "" {
		name = "(unnamed)"
	}
	return wberrors.AircraftError(
		fmt.Sprintf("invalid aircraft configuration %q: %s", name, problems[0]), nil).
		WithDetail("aircraft", name).
		WithDetail("problems", strings.Join(problems, "; ")).
		WithSuggestion("fix the aircraft file and run 'wbadvisor aircraft validate <file>'")
}

func (c *Config) checkFinite() []string {
	var problems []string
	check := func(field string, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			problems = append(problems, fmt.Sprintf("%s must be a finite number, got %g", field, v))
		}
	}

	check("EmptyWeight", c.EmptyWeight)
	check("EmptyCG", c.EmptyCG)
	for i, s := range c.Stations {
		if s.Arm != nil {
			check(fmt.Sprintf("Stations[%d].Arm", i), *s.Arm)
		}
		if s.Max != nil {
			check(fmt.Sprintf("Stations[%d].Max", i), *s.Max)
		}
	}
	check("Limits.MaxWeight", c.Limits.MaxWeight)
	check("Limits.MaxLandingWeight", c.Limits.MaxLandingWeight)
	check("Limits.MaxBaggage", c.Limits.MaxBaggage)
	check("Limits.FuelCapacityGal", c.Limits.FuelCapacityGal)
	check("Envelope.MinWeight", c.Envelope.MinWeight)
	check("Envelope.MaxWeight", c.Envelope.MaxWeight)
	for i, bp := range c.Envelope.Forward {
		check(fmt.Sprintf("Envelope.Forward[%d].Weight", i), bp.Weight)
		check(fmt.Sprintf("Envelope.Forward[%d].CG", i), bp.CG)
	}
	for i, bp := range c.Envelope.Aft {
		check(fmt.Sprintf("Envelope.Aft[%d].Weight", i), bp.Weight)
		check(fmt.Sprintf("Envelope.Aft[%d].CG", i), bp.CG)
	}
	return problems
}

func (c *Config) checkStations() []string {
	var problems []string
	seen := make(map[StationID]bool, len(c.Stations))
	for _, s := range c.Stations {
		if s.ID == "" {
			continue // reported by struct validation
		}
		if seen[s.ID] {
			problems = append(problems, fmt.Sprintf("duplicate station %q", s.ID))
		}
		seen[s.ID] = true
	}
	if c.FuelStation != "" && !seen[c.FuelStation] {
		problems = append(problems, fmt.Sprintf("fuel station %q is not a configured station", c.FuelStation))
	}
	return problems
}

func checkBoundary(name string, b Boundary, env Envelope) []string {
	var problems []string
	for i := 1; i < len(b); i++ {
		switch {
		case b[i].Weight == b[i-1].Weight:
			problems = append(problems, fmt.Sprintf("%s boundary has a zero-width segment at weight %g", name, b[i].Weight))
		case b[i].Weight < b[i-1].Weight:
			problems = append(problems, fmt.Sprintf("%s boundary is not ascending by weight at breakpoint %d (%g after %g)",
				name, i, b[i].Weight, b[i-1].Weight))
		}
	}
	if len(b) > 0 {
		first, last := b.Span()
		if first > env.MinWeight {
			problems = append(problems, fmt.Sprintf("%s boundary starts at %g, above envelope min weight %g", name, first, env.MinWeight))
		}
		if last < env.MaxWeight {
			problems = append(problems, fmt.Sprintf("%s boundary ends at %g, below envelope max weight %g", name, last, env.MaxWeight))
		}
	}
	return problems
}

func checkCrossing(env Envelope) []string {
	var problems []string
	check := func(w float64) {
		if !env.Contains(w) {
			return
		}
		fwd, aft := env.Forward.At(w), env.Aft.At(w)
		if fwd > aft {
			problems = append(problems, fmt.Sprintf("forward limit %g is aft of aft limit %g at weight %g", fwd, aft, w))
		}
	}
	check(env.MinWeight)
	check(env.MaxWeight)
	for _, bp := range env.Forward {
		check(bp.Weight)
	}
	for _, bp := range env.Aft {
		check(bp.Weight)
	}
	return problems
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gtfield":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
