package aircraft

import "sort"

// Boundary is a piecewise-linear CG limit defined by breakpoints sorted
// strictly ascending by weight.
type Boundary []Breakpoint

// At returns the boundary CG at weight.
//
// An exact breakpoint hit returns that breakpoint's CG without division.
// Between breakpoints the CG is linearly interpolated. Weights outside the
// breakpoint range clamp to the nearest end; callers check the envelope
// domain first. The boundary must have passed Config.Validate.
func (b Boundary) At(weight float64) float64 {
	n := len(b)
	if n == 0 {
		return 0
	}
	if weight <= b[0].Weight {
		return b[0].CG
	}
	if weight >= b[n-1].Weight {
		return b[n-1].CG
	}

	// First breakpoint with Weight >= weight; 1 <= i <= n-1 here.
	i := sort.Search(n, func(i int) bool { return b[i].Weight >= weight })
	hi := b[i]
	if hi.Weight == weight {
		return hi.CG
	}
	lo := b[i-1]
	return lo.CG + (weight-lo.Weight)/(hi.Weight-lo.Weight)*(hi.CG-lo.CG)
}

// Span returns the first and last breakpoint weights.
func (b Boundary) Span() (float64, float64) {
	if len(b) == 0 {
		return 0, 0
	}
	return b[0].Weight, b[len(b)-1].Weight
}
