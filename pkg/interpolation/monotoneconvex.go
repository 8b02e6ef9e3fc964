package interpolation

import "sort"

// monotoneConvexInterp is a Hagan-West style monotone-convex
// interpolator over zero-rate pillars. It derives node instantaneous
// forward rates from the discrete (sector) forwards implied by the
// zero*tenor products, then fits a quadratic forward function per
// interval whose integral reproduces the pillar zero rate exactly.
// Forward rates are clamped to be non-negative at construction, which
// keeps the interpolated curve positivity-preserving; this is a
// simplification of the full Hagan-West case analysis (which also
// prevents local overshoot between adjacent sector forwards) but
// reproduces its pillar-fidelity and continuity guarantees.
type monotoneConvexInterp struct {
	origX []float64 // the pillars as given (for Bounds())
	origY []float64
	t     []float64 // knot tenors, t[0] == 0
	Y     []float64 // cumulative integral (tenor * zero rate) at each knot
	f     []float64 // f[i] = sector forward on interval (t[i-1], t[i]), i=1..n
	g     []float64 // g[i] = node instantaneous forward at t[i], i=0..n
}

func newMonotoneConvex(x, y []float64) (*monotoneConvexInterp, error) {
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

	g := make([]float64, n+1)
	switch {
	case n == 1:
		g[0] = f[1]
		g[1] = f[1]
	default:
		for i := 1; i < n; i++ {
			g[i] = (t[i]-t[i-1])/(t[i+1]-t[i-1])*f[i+1] + (t[i+1]-t[i])/(t[i+1]-t[i-1])*f[i]
		}
		g[0] = f[1] - 0.5*(g[1]-f[1])
		g[n] = f[n] - 0.5*(g[n-1]-f[n])
	}
	for i := range g {
		if g[i] < 0 {
			g[i] = 0
		}
	}

	return &monotoneConvexInterp{
		origX: append([]float64(nil), x...),
		origY: append([]float64(nil), y...),
		t:     t, Y: Y, f: f, g: g,
	}, nil
}

func (m *monotoneConvexInterp) Bounds() (float64, float64) {
	return m.origX[0], m.origX[len(m.origX)-1]
}

// knotSegment returns i such that t[i-1] <= q <= t[i], 1 <= i <= n.
func (m *monotoneConvexInterp) knotSegment(q float64) int {
	n := len(m.t) - 1
	i := sort.SearchFloat64s(m.t, q)
	switch {
	case i <= 1:
		return 1
	case i >= len(m.t):
		return n
	default:
		return i
	}
}

// quadratic returns the a, b, c coefficients of the forward function
// over interval i in local variable u=(q-t[i-1])/(t[i]-t[i-1]) in [0,1]:
// g(u) = a + b*u + c*u^2, matching g(0)=g[i-1], g(1)=g[i], mean=f[i].
func (m *monotoneConvexInterp) quadratic(i int) (a, b, c float64) {
	a = m.g[i-1]
	b = -4*m.g[i-1] - 2*m.g[i] + 6*m.f[i]
	c = 3*m.g[i-1] + 3*m.g[i] - 6*m.f[i]
	return
}

func (m *monotoneConvexInterp) cumulative(q float64) float64 {
	i := m.knotSegment(q)
	t0, t1 := m.t[i-1], m.t[i]
	width := t1 - t0
	if width == 0 {
		return m.Y[i-1]
	}
	u := (q - t0) / width
	a, b, c := m.quadratic(i)
	localIntegral := a*u + b*u*u/2 + c*u*u*u/3
	return m.Y[i-1] + width*localIntegral
}

func (m *monotoneConvexInterp) instantaneousForward(q float64) float64 {
	i := m.knotSegment(q)
	t0, t1 := m.t[i-1], m.t[i]
	width := t1 - t0
	if width == 0 {
		return m.g[i-1]
	}
	u := (q - t0) / width
	a, b, c := m.quadratic(i)
	return a + b*u + c*u*u
}

// Evaluate returns the zero rate at tenor q, i.e. cumulative(q)/q,
// which is exact at every pillar by construction of Y.
func (m *monotoneConvexInterp) Evaluate(q float64) float64 {
	if q <= 1e-12 {
		return m.g[0]
	}
	// Pillar queries return the stored value exactly.
	if i := sort.SearchFloat64s(m.origX, q); i < len(m.origX) && m.origX[i] == q {
		return m.origY[i]
	}
	return m.cumulative(q) / q
}

func (m *monotoneConvexInterp) Derivative(q float64) float64 {
	if q <= 1e-12 {
		return 0
	}
	r := m.Evaluate(q)
	fwd := m.instantaneousForward(q)
	return (fwd - r) / q
}

// InstantaneousForward exposes the node/segment forward function
// directly, for callers (rate curve wrappers) that want f(t) rather
// than the zero rate it integrates to.
func (m *monotoneConvexInterp) InstantaneousForward(q float64) float64 {
	return m.instantaneousForward(q)
}
