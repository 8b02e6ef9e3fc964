package curve

import (
	"math"

	"github.com/jiangshenghai57/convexcore/pkg/date"
	"github.com/jiangshenghai57/convexcore/pkg/daycount"
	"github.com/jiangshenghai57/convexcore/pkg/valuetype"
)

// RateCurve is a semantic wrapper around a TermStructure: it holds no
// interpolation logic of its own, and delegates every query to the
// underlying term structure's stored representation plus the
// valuetype converters. Two RateCurves built on differently-stored
// term structures that represent the same economic curve produce
// identical results here to within interpolation error.
type RateCurve struct {
	ts             *TermStructure
	dayCount       daycount.Convention
	periodsPerYear int
}

// NewRateCurve wraps a DiscountFactor-, ZeroRate-, or
// InstantaneousForward-valued term structure. dayCount is used only
// to translate calendar dates into tenors.
func NewRateCurve(ts *TermStructure, dayCount daycount.Convention, periodsPerYear int) *RateCurve {
	return &RateCurve{ts: ts, dayCount: dayCount, periodsPerYear: periodsPerYear}
}

func (r *RateCurve) TenorOf(d date.Date) float64 {
	yf, _ := daycount.YearFraction(r.dayCount, r.ts.ReferenceDate(), d, daycount.Period{})
	return yf
}

type tsForwardView struct{ ts *TermStructure }

func (v tsForwardView) Evaluate(t float64) float64 { return v.ts.ValueAt(t) }

// DiscountFactor returns P(0, t) regardless of the curve's storage
// representation.
func (r *RateCurve) DiscountFactor(t float64) (float64, error) {
	switch r.ts.ValueType().Kind {
	case valuetype.DiscountFactor:
		return r.ts.ValueAt(t), nil
	case valuetype.ZeroRate:
		vt := r.ts.ValueType()
		rate := r.ts.ValueAt(t)
		return valuetype.ZeroToDF(rate, t, vt.Compounding, r.periodsPerYear)
	case valuetype.InstantaneousForward:
		tenors, _ := r.ts.Pillars()
		return valuetype.InstantaneousForwardToDF(tsForwardView{r.ts}, tenors, t)
	default:
		return 0, valuetype.RequireDiscountFactor(r.ts.ValueType())
	}
}

// DiscountFactorAtDate converts d to a tenor via the curve's day-count
// convention before delegating to DiscountFactor.
func (r *RateCurve) DiscountFactorAtDate(d date.Date) (float64, error) {
	return r.DiscountFactor(r.TenorOf(d))
}

// ZeroRate returns the spot zero rate to tenor t under the requested
// compounding, converting through a discount factor when the curve is
// stored under a different representation or compounding.
func (r *RateCurve) ZeroRate(t float64, compounding valuetype.Compounding) (float64, error) {
	if t <= 0 {
		return 0, nil
	}
	vt := r.ts.ValueType()
	if vt.Kind == valuetype.ZeroRate && vt.Compounding == compounding {
		return r.ts.ValueAt(t), nil
	}
	df, err := r.DiscountFactor(t)
	if err != nil {
		return 0, err
	}
	return valuetype.DFToZero(df, t, compounding, r.periodsPerYear)
}

// ForwardRate returns the simple or compounded forward rate that
// applies over [t1, t2].
func (r *RateCurve) ForwardRate(t1, t2 float64, compounding valuetype.Compounding) (float64, error) {
	df1, err := r.DiscountFactor(t1)
	if err != nil {
		return 0, err
	}
	df2, err := r.DiscountFactor(t2)
	if err != nil {
		return 0, err
	}
	tau := t2 - t1
	if tau <= 0 {
		return 0, nil
	}
	switch compounding {
	case valuetype.Simple:
		return (df1/df2 - 1) / tau, nil
	case valuetype.Continuous:
		return math.Log(df1/df2) / tau, nil
	case valuetype.Periodic:
		k := float64(r.periodsPerYear)
		if k <= 0 {
			k = 1
		}
		return k * (math.Pow(df1/df2, 1/(k*tau)) - 1), nil
	default:
		return (df1/df2 - 1) / tau, nil
	}
}

// InstantaneousForward returns f(t). For a curve stored as
// DiscountFactor it is derived from the interpolator's log-derivative;
// for a curve stored as InstantaneousForward it is the stored value
// directly; for a curve stored as ZeroRate it applies the identity
// f(t) = R(t) + t*R'(t) with R' from the interpolator's analytic
// derivative. Other value types return an error.
func (r *RateCurve) InstantaneousForward(t float64) (float64, error) {
	switch r.ts.ValueType().Kind {
	case valuetype.InstantaneousForward:
		return r.ts.ValueAt(t), nil
	case valuetype.DiscountFactor:
		return -r.ts.DerivativeAt(t) / r.ts.ValueAt(t), nil
	case valuetype.ZeroRate:
		rate := r.ts.ValueAt(t)
		slope := r.ts.DerivativeAt(t)
		return rate + t*slope, nil
	default:
		return 0, valuetype.RequireDiscountFactor(r.ts.ValueType())
	}
}

func (r *RateCurve) TermStructure() *TermStructure { return r.ts }
