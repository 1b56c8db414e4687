package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/Aman-CERP/wbadvisor/internal/balance"
	"github.com/Aman-CERP/wbadvisor/internal/units"
)

// GaugeWidth is the default width of a CG gauge, brackets included.
const GaugeWidth = 24

// Gauge characters.
const (
	gaugeTrack   = '─'
	gaugeMarker  = '●'
	gaugeFwdOver = '◀'
	gaugeAftOver = '▶'
	gaugeUnknown = '·'
)

// RenderReport formats a report as a station table, the three load states
// with their envelope checks, and any advisories. Weights are shown in unit;
// arms and CG in inches and moments in lb-in whatever the unit.
func RenderReport(r balance.Report, styles Styles, unit units.Unit) string {
	if !unit.IsMass() {
		unit = units.Pounds
	}
	var b strings.Builder

	b.WriteString(styles.Header.Render(r.Aircraft))
	b.WriteString("\n\n")

	b.WriteString(styles.Label.Render(fmt.Sprintf("%-24s %10s %8s %12s", "STATION", "WEIGHT "+unit.String(), "ARM", "MOMENT")))
	b.WriteByte('\n')
	for _, l := range r.Stations {
		name := l.Label
		if name == "" {
			name = string(l.ID)
		}
		line := fmt.Sprintf("%-24s %10.1f %8.1f %12.1f", truncate(name, 24), units.FromLbs(l.Weight, unit), l.Arm, l.Moment)
		if l.OverLimit {
			line = styles.Warning.Render(line + fmt.Sprintf("  over max %.1f", units.FromLbs(l.Max, unit)))
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	b.WriteString(styles.Label.Render(fmt.Sprintf("%-10s %10s %8s %8s %8s  %s", "STATE", "WEIGHT "+unit.String(), "CG", "FWD", "AFT", "FWD ─ CG ─ AFT")))
	b.WriteByte('\n')
	states := []struct {
		name string
		ls   balance.LoadState
	}{
		{"Take-off", r.Takeoff},
		{"Zero fuel", r.ZeroFuel},
		{"Landing", r.Landing},
	}
	for _, s := range states {
		b.WriteString(renderState(s.name, s.ls, styles, unit))
		b.WriteByte('\n')
	}

	if r.BaggageWeight > 0 || r.PlannedFuelBurn > 0 {
		b.WriteByte('\n')
		b.WriteString(styles.Label.Render(fmt.Sprintf("Baggage %.1f %s   Planned burn %.1f %s",
			units.FromLbs(r.BaggageWeight, unit), unit, units.FromLbs(r.PlannedFuelBurn, unit), unit)))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	if r.Safe() {
		b.WriteString(styles.Success.Render("✓ within envelope and limits"))
		b.WriteByte('\n')
		return b.String()
	}
	for _, m := range AdvisoryMessages(r, unit) {
		b.WriteString(styles.Warning.Render("⚠ " + m))
		b.WriteByte('\n')
	}
	return b.String()
}

func renderState(name string, ls balance.LoadState, styles Styles, unit units.Unit) string {
	fwd, aft := "-", "-"
	if ls.InWeightRange {
		fwd = fmt.Sprintf("%.2f", ls.ForwardLimit)
		aft = fmt.Sprintf("%.2f", ls.AftLimit)
	}
	line := fmt.Sprintf("%-10s %10.1f %8.2f %8s %8s  ", name, units.FromLbs(ls.Weight, unit), ls.CG, fwd, aft)
	gauge := styles.Gauge.Render(CGGauge(ls, GaugeWidth))

	status := styles.Success.Render("ok")
	switch {
	case !ls.InWeightRange:
		status = styles.Error.Render("weight outside envelope")
	case !ls.WithinEnvelope:
		status = styles.Error.Render("CG outside envelope")
	}
	return line + gauge + " " + status
}

// CGGauge draws the CG position between the forward and aft limits as a
// bracketed track. A CG beyond a limit is shown as an arrow at that end;
// a weight outside the envelope renders a dotted track.
func CGGauge(ls balance.LoadState, width int) string {
	if width < 3 {
		width = 3
	}
	inner := width - 2
	track := make([]rune, inner)
	for i := range track {
		track[i] = gaugeTrack
	}

	span := ls.AftLimit - ls.ForwardLimit
	switch {
	case !ls.InWeightRange || span <= 0:
		for i := range track {
			track[i] = gaugeUnknown
		}
	case ls.CG < ls.ForwardLimit:
		track[0] = gaugeFwdOver
	case ls.CG > ls.AftLimit:
		track[inner-1] = gaugeAftOver
	default:
		pos := int(math.Round((ls.CG - ls.ForwardLimit) / span * float64(inner-1)))
		track[pos] = gaugeMarker
	}
	return "[" + string(track) + "]"
}

// AdvisoryMessages describes each raised advisory in words, weights in unit.
func AdvisoryMessages(r balance.Report, unit units.Unit) []string {
	if !unit.IsMass() {
		unit = units.Pounds
	}
	a := r.Advisories
	w := func(lbs float64) string {
		return fmt.Sprintf("%.1f %s", units.FromLbs(lbs, unit), unit)
	}

	var msgs []string
	if a.OverMaxWeight {
		msgs = append(msgs, "take-off weight "+w(r.Takeoff.Weight)+" exceeds maximum")
	}
	if a.OverMaxLandingWeight {
		msgs = append(msgs, "landing weight "+w(r.Landing.Weight)+" exceeds maximum landing weight")
	}
	if a.OverBaggageLimit {
		msgs = append(msgs, "combined baggage "+w(r.BaggageWeight)+" exceeds limit")
	}
	for _, id := range a.StationsOverLimit {
		msgs = append(msgs, fmt.Sprintf("station %s exceeds its maximum", id))
	}
	if a.NegativeZeroFuelWeight {
		msgs = append(msgs, "zero-fuel weight is negative")
	}
	if a.NegativeLandingWeight {
		msgs = append(msgs, "landing weight is negative")
	}
	if a.BurnExceedsFuel {
		msgs = append(msgs, "planned burn "+w(r.PlannedFuelBurn)+" exceeds fuel on board")
	}
	for _, id := range a.IgnoredStations {
		msgs = append(msgs, fmt.Sprintf("station %s is not on this aircraft and was ignored", id))
	}

	states := []struct {
		name string
		ls   balance.LoadState
	}{
		{"take-off", r.Takeoff},
		{"zero-fuel", r.ZeroFuel},
		{"landing", r.Landing},
	}
	for _, s := range states {
		if !s.ls.WithinEnvelope {
			msgs = append(msgs, fmt.Sprintf("%s condition is outside the CG envelope", s.name))
		}
	}
	return msgs
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
