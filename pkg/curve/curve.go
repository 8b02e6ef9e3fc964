// Package curve builds term structures over tenor-in-years pillars and
// the semantic wrappers (rate curve, credit curve) that turn a raw
// stored representation into domain quantities like discount factors,
// forward rates, survival probabilities and hazard rates.
package curve

import (
	"fmt"
	"math"
	"sort"

	"github.com/jiangshenghai57/convexcore/pkg/date"
	"github.com/jiangshenghai57/convexcore/pkg/interpolation"
	"github.com/jiangshenghai57/convexcore/pkg/valuetype"
)

// Extrapolation names the out-of-range query policy for a TermStructure.
type Extrapolation int

const (
	// ExtrapolateNone evaluates out-of-range queries to NaN.
	ExtrapolateNone Extrapolation = iota
	// ExtrapolateFlat returns the nearest endpoint value.
	ExtrapolateFlat
	// ExtrapolateLinear extends using the slope of the nearest two pillars.
	ExtrapolateLinear
	// ExtrapolateFlatForward extends zero-rate or discount-factor curves
	// with the last segment's instantaneous forward rate.
	ExtrapolateFlatForward
)

func (e Extrapolation) String() string {
	switch e {
	case ExtrapolateNone:
		return "None"
	case ExtrapolateFlat:
		return "Flat"
	case ExtrapolateLinear:
		return "Linear"
	case ExtrapolateFlatForward:
		return "FlatForward"
	default:
		return fmt.Sprintf("Extrapolation(%d)", int(e))
	}
}

// TermStructure is a reference date, an ordered set of (tenor, value)
// pillars, one interpolator over them, a ValueType tag describing what
// the stored values mean, and an extrapolation policy for out-of-range
// queries. It is immutable once built.
type TermStructure struct {
	referenceDate date.Date
	tenors        []float64
	values        []float64
	interp        interpolation.Interpolator
	method        interpolation.Method
	valueType     valuetype.ValueType
	extrap        Extrapolation
}

// New builds a term structure. tenors must be strictly increasing with
// at least two pillars; if valueType is DiscountFactor, values must be
// strictly positive and, if a tenor of exactly 0 is present, its value
// must equal 1.
func New(refDate date.Date, tenors, values []float64, method interpolation.Method, vt valuetype.ValueType, extrap Extrapolation) (*TermStructure, error) {
	if len(tenors) != len(values) {
		return nil, fmt.Errorf("curve: tenors/values length mismatch: %d vs %d", len(tenors), len(values))
	}
	if len(tenors) < 2 {
		return nil, fmt.Errorf("curve: need at least 2 pillars, got %d", len(tenors))
	}
	if vt.Kind == valuetype.DiscountFactor {
		for i, v := range values {
			if v <= 0 || v > 1 {
				return nil, fmt.Errorf("curve: discount factor pillar %d=%v must lie in (0, 1]", i, v)
			}
			if tenors[i] == 0 && v != 1 {
				return nil, fmt.Errorf("curve: discount factor at t=0 must equal 1, got %v", v)
			}
		}
	}

	interp, err := interpolation.Build(method, tenors, values)
	if err != nil {
		return nil, fmt.Errorf("curve: %w", err)
	}

	return &TermStructure{
		referenceDate: refDate,
		tenors:        append([]float64(nil), tenors...),
		values:        append([]float64(nil), values...),
		interp:        interp,
		method:        method,
		valueType:     vt,
		extrap:        extrap,
	}, nil
}

func (t *TermStructure) ReferenceDate() date.Date        { return t.referenceDate }
func (t *TermStructure) ValueType() valuetype.ValueType  { return t.valueType }
func (t *TermStructure) Method() interpolation.Method    { return t.method }
func (t *TermStructure) Extrapolation() Extrapolation    { return t.extrap }
func (t *TermStructure) Pillars() ([]float64, []float64) {
	return append([]float64(nil), t.tenors...), append([]float64(nil), t.values...)
}

// TenorBounds returns the minimum and maximum pillar tenor.
func (t *TermStructure) TenorBounds() (float64, float64) {
	return t.tenors[0], t.tenors[len(t.tenors)-1]
}

// ValueAt returns the stored-representation value at tenor t. Queries
// at t < 0 return NaN. In-range queries delegate to the interpolator;
// out-of-range queries delegate to the extrapolation policy.
func (t *TermStructure) ValueAt(tenor float64) float64 {
	if tenor < 0 {
		return math.NaN()
	}
	lo, hi := t.TenorBounds()
	if tenor >= lo && tenor <= hi {
		return t.interp.Evaluate(tenor)
	}
	return t.extrapolate(tenor, lo, hi)
}

// TryValueAt is ValueAt but returns an explicit error for out-of-range
// queries under ExtrapolateNone, and for negative tenors always.
func (t *TermStructure) TryValueAt(tenor float64) (float64, error) {
	if tenor < 0 {
		return 0, fmt.Errorf("curve: tenor %v is negative", tenor)
	}
	lo, hi := t.TenorBounds()
	if tenor >= lo && tenor <= hi {
		return t.interp.Evaluate(tenor), nil
	}
	if t.extrap == ExtrapolateNone {
		return 0, fmt.Errorf("curve: tenor %v outside [%v, %v] and extrapolation policy is None", tenor, lo, hi)
	}
	return t.extrapolate(tenor, lo, hi), nil
}

func (t *TermStructure) extrapolate(tenor, lo, hi float64) float64 {
	switch t.extrap {
	case ExtrapolateNone:
		return math.NaN()
	case ExtrapolateFlat:
		if tenor < lo {
			return t.interp.Evaluate(lo)
		}
		return t.interp.Evaluate(hi)
	case ExtrapolateLinear:
		n := len(t.tenors)
		if tenor < lo {
			slope := (t.values[1] - t.values[0]) / (t.tenors[1] - t.tenors[0])
			return t.values[0] + slope*(tenor-lo)
		}
		slope := (t.values[n-1] - t.values[n-2]) / (t.tenors[n-1] - t.tenors[n-2])
		return t.values[n-1] + slope*(tenor-hi)
	case ExtrapolateFlatForward:
		return t.flatForwardExtrapolate(tenor, lo, hi)
	default:
		return math.NaN()
	}
}

// flatForwardExtrapolate holds the last (or first) segment's
// instantaneous forward rate constant beyond the pillar range. This
// applies to zero-rate and discount-factor curves: the forward is
// recovered from the interpolator's log-derivative (discount factors)
// or directly from the zero-rate derivative identity
// f(t) = R(t) + t*R'(t).
func (t *TermStructure) flatForwardExtrapolate(tenor, lo, hi float64) float64 {
	switch t.valueType.Kind {
	case valuetype.DiscountFactor:
		var edge, fwd float64
		if tenor < lo {
			edge = lo
			fwd = -t.interp.Derivative(lo) / t.interp.Evaluate(lo)
		} else {
			edge = hi
			fwd = -t.interp.Derivative(hi) / t.interp.Evaluate(hi)
		}
		edgeDF := t.interp.Evaluate(edge)
		return edgeDF * math.Exp(-fwd*(tenor-edge))
	case valuetype.ZeroRate:
		var edge float64
		if tenor < lo {
			edge = lo
		} else {
			edge = hi
		}
		r := t.interp.Evaluate(edge)
		rPrime := t.interp.Derivative(edge)
		fwd := r + edge*rPrime
		// Flat-forward extension: R(t) = (fwd*(t-edge) + r*edge) / t
		if tenor == 0 {
			return r
		}
		return (fwd*(tenor-edge) + r*edge) / tenor
	default:
		// Falls back to flat-value extension for value types the
		// forward identity does not apply to (survival, hazard, etc).
		if tenor < lo {
			return t.interp.Evaluate(lo)
		}
		return t.interp.Evaluate(hi)
	}
}

// DerivativeAt returns the interpolator's derivative at an in-range
// tenor, or NaN if out of range (derivative extrapolation is not
// independently defined beyond what ValueAt already extends).
func (t *TermStructure) DerivativeAt(tenor float64) float64 {
	lo, hi := t.TenorBounds()
	if tenor < lo || tenor > hi {
		return math.NaN()
	}
	return t.interp.Derivative(tenor)
}

// sortedUnique is a helper for builders: it validates strictly
// increasing, deduplicated tenors paired with values.
func sortedUnique(tenors, values []float64) ([]float64, []float64, error) {
	type pair struct{ t, v float64 }
	pairs := make([]pair, len(tenors))
	for i := range tenors {
		pairs[i] = pair{tenors[i], values[i]}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].t < pairs[j].t })
	outT := make([]float64, 0, len(pairs))
	outV := make([]float64, 0, len(pairs))
	for i, p := range pairs {
		if i > 0 && math.Abs(p.t-pairs[i-1].t) < 1e-10 {
			return nil, nil, fmt.Errorf("curve: duplicate tenor %v", p.t)
		}
		outT = append(outT, p.t)
		outV = append(outV, p.v)
	}
	return outT, outV, nil
}
