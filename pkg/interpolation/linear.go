package interpolation

import "math"

type linearInterp struct {
	x, y []float64
}

func newLinear(x, y []float64) *linearInterp {
	return &linearInterp{x: append([]float64(nil), x...), y: append([]float64(nil), y...)}
}

func (l *linearInterp) Bounds() (float64, float64) { return l.x[0], l.x[len(l.x)-1] }

func (l *linearInterp) Evaluate(q float64) float64 {
	i := segment(l.x, q)
	x0, x1 := l.x[i], l.x[i+1]
	y0, y1 := l.y[i], l.y[i+1]
	// Pillar queries return the stored value, not the arithmetic that
	// reconstructs it.
	if q == x0 {
		return y0
	}
	if q == x1 {
		return y1
	}
	w := (q - x0) / (x1 - x0)
	return y0 + w*(y1-y0)
}

func (l *linearInterp) Derivative(q float64) float64 {
	i := segment(l.x, q)
	x0, x1 := l.x[i], l.x[i+1]
	if x1 == x0 {
		return 0
	}
	return (l.y[i+1] - l.y[i]) / (x1 - x0)
}

// logLinearInterp is piecewise-linear in log(y): the implied forward
// (the derivative of -log y w.r.t. x) is piecewise-constant per
// segment, which is why it is the standard choice for discount factors.
type logLinearInterp struct {
	x, logY []float64
	y       []float64
}

func newLogLinear(x, y []float64) (*logLinearInterp, error) {
	logY := make([]float64, len(y))
	for i, v := range y {
		logY[i] = math.Log(v)
	}
	return &logLinearInterp{
		x:    append([]float64(nil), x...),
		logY: logY,
		y:    append([]float64(nil), y...),
	}, nil
}

func (l *logLinearInterp) Bounds() (float64, float64) { return l.x[0], l.x[len(l.x)-1] }

func (l *logLinearInterp) Evaluate(q float64) float64 {
	i := segment(l.x, q)
	x0, x1 := l.x[i], l.x[i+1]
	ly0, ly1 := l.logY[i], l.logY[i+1]
	if q == x0 {
		return l.y[i]
	}
	if q == x1 {
		return l.y[i+1]
	}
	w := (q - x0) / (x1 - x0)
	return math.Exp(ly0 + w*(ly1-ly0))
}

func (l *logLinearInterp) Derivative(q float64) float64 {
	i := segment(l.x, q)
	x0, x1 := l.x[i], l.x[i+1]
	if x1 == x0 {
		return 0
	}
	slope := (l.logY[i+1] - l.logY[i]) / (x1 - x0)
	return slope * l.Evaluate(q)
}

// SegmentLogSlope returns d(log y)/dx on the segment containing q,
// constant across the segment.
func (l *logLinearInterp) SegmentLogSlope(q float64) float64 {
	i := segment(l.x, q)
	x0, x1 := l.x[i], l.x[i+1]
	if x1 == x0 {
		return 0
	}
	return (l.logY[i+1] - l.logY[i]) / (x1 - x0)
}
