package interpolation

import (
	"gonum.org/v1/gonum/mat"
)

// cubicSplineInterp is a natural cubic spline: C2-continuous, with
// second derivative pinned to zero at both endpoints. The tridiagonal
// system for the second derivatives is solved once at construction;
// each query is a binary search plus a constant-time polynomial
// evaluation.
type cubicSplineInterp struct {
	x, y   []float64
	m2     []float64 // second derivatives at each pillar
}

func newCubicSpline(x, y []float64) *cubicSplineInterp {
	m2 := solveNaturalSplineSystem(x, y)
	return &cubicSplineInterp{
		x:  append([]float64(nil), x...),
		y:  append([]float64(nil), y...),
		m2: m2,
	}
}

// solveNaturalSplineSystem builds and solves the tridiagonal system for
// natural-boundary second derivatives via gonum's dense linear solve
// (the system is small - at most a few hundred pillars - so a dense
// solve is simpler than a dedicated tridiagonal routine and costs
// nothing material at this scale).
func solveNaturalSplineSystem(x, y []float64) []float64 {
	n := len(x)
	m2 := make([]float64, n)
	if n <= 2 {
		return m2 // straight line: zero curvature everywhere
	}

	h := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		h[i] = x[i+1] - x[i]
	}

	// Interior unknowns m2[1..n-2]; natural boundary fixes m2[0]=m2[n-1]=0.
	interior := n - 2
	a := mat.NewDense(interior, interior, nil)
	b := mat.NewDense(interior, 1, nil)

	for i := 0; i < interior; i++ {
		row := i + 1
		if i > 0 {
			a.Set(i, i-1, h[row-1])
		}
		a.Set(i, i, 2*(h[row-1]+h[row]))
		if i < interior-1 {
			a.Set(i, i+1, h[row])
		}
		rhs := 6 * ((y[row+1]-y[row])/h[row] - (y[row]-y[row-1])/h[row-1])
		b.Set(i, 0, rhs)
	}

	if interior > 0 {
		var sol mat.Dense
		if err := sol.Solve(a, b); err == nil {
			for i := 0; i < interior; i++ {
				m2[i+1] = sol.At(i, 0)
			}
		}
	}

	return m2
}

func (c *cubicSplineInterp) Bounds() (float64, float64) { return c.x[0], c.x[len(c.x)-1] }

func (c *cubicSplineInterp) segmentAt(q float64) int {
	return segment(c.x, q)
}

func (c *cubicSplineInterp) Evaluate(q float64) float64 {
	i := c.segmentAt(q)
	x0, x1 := c.x[i], c.x[i+1]
	h := x1 - x0
	if h == 0 {
		return c.y[i]
	}
	a := (x1 - q) / h
	b := (q - x0) / h
	return a*c.y[i] + b*c.y[i+1] +
		((a*a*a-a)*c.m2[i]+(b*b*b-b)*c.m2[i+1])*(h*h)/6.0
}

func (c *cubicSplineInterp) Derivative(q float64) float64 {
	i := c.segmentAt(q)
	x0, x1 := c.x[i], c.x[i+1]
	h := x1 - x0
	if h == 0 {
		return 0
	}
	a := (x1 - q) / h
	b := (q - x0) / h
	return (c.y[i+1]-c.y[i])/h -
		(3*a*a-1)*h*c.m2[i]/6.0 +
		(3*b*b-1)*h*c.m2[i+1]/6.0
}
