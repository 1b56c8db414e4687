package balance

import "github.com/Aman-CERP/wbadvisor/internal/aircraft"

// Interpolate returns the boundary CG at weight. Exact breakpoint hits
// return the stored value; weights between breakpoints are linearly
// interpolated.
func Interpolate(b aircraft.Boundary, weight float64) float64 {
	return b.At(weight)
}

// WithinEnvelope reports whether (weight, cg) lies inside the envelope.
// Weights outside [MinWeight, MaxWeight] are never within, whatever the CG.
func WithinEnvelope(env aircraft.Envelope, weight, cg float64) bool {
	if !env.Contains(weight) {
		return false
	}
	return Interpolate(env.Forward, weight) <= cg && cg <= Interpolate(env.Aft, weight)
}

// Classify fills the envelope fields of ls.
func Classify(env aircraft.Envelope, ls LoadState) LoadState {
	ls.InWeightRange = env.Contains(ls.Weight)
	if !ls.InWeightRange {
		ls.WithinEnvelope = false
		ls.ForwardLimit, ls.AftLimit = 0, 0
		return ls
	}
	ls.ForwardLimit = Interpolate(env.Forward, ls.Weight)
	ls.AftLimit = Interpolate(env.Aft, ls.Weight)
	ls.WithinEnvelope = ls.ForwardLimit <= ls.CG && ls.CG <= ls.AftLimit
	return ls
}
