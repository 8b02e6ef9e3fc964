package interpolation

import "sort"

// flatForwardInterp holds the instantaneous forward constant within
// each pillar interval: y(t)*t is piecewise-linear in t, so the
// implied forward has a jump discontinuity only at pillar tenors.
// This is the interpolator most curve-building engines default to for
// zero rate pillars because it keeps forward rates easy to reason
// about even though it is not C1.
type flatForwardInterp struct {
	origX []float64
	origY []float64
	t     []float64 // knot tenors, t[0] == 0
	Y     []float64 // cumulative integral (tenor * zero rate) at each knot
	f     []float64 // f[i] = flat forward on interval (t[i-1], t[i]), i=1..n
}

func newFlatForward(x, y []float64) *flatForwardInterp {
	var t, Y []float64
	if x[0] > 1e-12 {
		t = make([]float64, len(x)+1)
		Y = make([]float64, len(x)+1)
		copy(t[1:], x)
		for i := 1; i < len(t); i++ {
			Y[i] = t[i] * y[i-1]
		}
	} else {
		t = append([]float64(nil), x...)
		Y = make([]float64, len(t))
		for i := range t {
			Y[i] = t[i] * y[i]
		}
	}

	n := len(t) - 1
	f := make([]float64, n+1)
	for i := 1; i <= n; i++ {
		f[i] = (Y[i] - Y[i-1]) / (t[i] - t[i-1])
	}

	return &flatForwardInterp{
		origX: append([]float64(nil), x...),
		origY: append([]float64(nil), y...),
		t:     t, Y: Y, f: f,
	}
}

func (ff *flatForwardInterp) Bounds() (float64, float64) {
	return ff.origX[0], ff.origX[len(ff.origX)-1]
}

func (ff *flatForwardInterp) knotSegment(q float64) int {
	n := len(ff.t) - 1
	i := sort.SearchFloat64s(ff.t, q)
	switch {
	case i <= 1:
		return 1
	case i >= len(ff.t):
		return n
	default:
		return i
	}
}

// Evaluate returns the zero rate at tenor q: the cumulative integral
// built from piecewise-flat forwards divided by q, exact at pillars.
func (ff *flatForwardInterp) Evaluate(q float64) float64 {
	if q <= 1e-12 {
		return ff.f[1]
	}
	// Pillar queries return the stored value exactly.
	if i := sort.SearchFloat64s(ff.origX, q); i < len(ff.origX) && ff.origX[i] == q {
		return ff.origY[i]
	}
	i := ff.knotSegment(q)
	cum := ff.Y[i-1] + (q-ff.t[i-1])*ff.f[i]
	return cum / q
}

func (ff *flatForwardInterp) Derivative(q float64) float64 {
	if q <= 1e-12 {
		return 0
	}
	i := ff.knotSegment(q)
	r := ff.Evaluate(q)
	return (ff.f[i] - r) / q
}

// InstantaneousForward returns the piecewise-constant forward rate
// applying at tenor q.
func (ff *flatForwardInterp) InstantaneousForward(q float64) float64 {
	i := ff.knotSegment(q)
	return ff.f[i]
}
