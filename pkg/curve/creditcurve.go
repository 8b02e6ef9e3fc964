package curve

import (
	"math"

	"github.com/jiangshenghai57/convexcore/pkg/valuetype"
)

// CreditCurve wraps a TermStructure storing survival probability,
// hazard rate, or credit spread, and derives the domain quantities a
// credit desk asks for. Recovery is a wrapper-level attribute, clamped
// to [0, 1], since the stored curve itself carries no recovery
// assumption unless it is a CreditSpread curve.
type CreditCurve struct {
	ts       *TermStructure
	recovery float64
}

func NewCreditCurve(ts *TermStructure, recovery float64) *CreditCurve {
	if recovery < 0 {
		recovery = 0
	}
	if recovery > 1 {
		recovery = 1
	}
	return &CreditCurve{ts: ts, recovery: recovery}
}

func (c *CreditCurve) Recovery() float64 { return c.recovery }

// Survival returns Q(t).
func (c *CreditCurve) Survival(t float64) (float64, error) {
	switch c.ts.ValueType().Kind {
	case valuetype.SurvivalProbability:
		return c.ts.ValueAt(t), nil
	case valuetype.HazardRate:
		return valuetype.HazardToSurvival(c.ts.ValueAt(t), t)
	case valuetype.CreditSpread:
		vt := c.ts.ValueType()
		recovery := vt.Recovery
		if recovery == 0 {
			recovery = c.recovery
		}
		return valuetype.CreditSpreadToSurvival(c.ts.ValueAt(t), recovery, t)
	default:
		return 0, valuetype.RequireDiscountFactor(c.ts.ValueType())
	}
}

// Default returns 1 - Q(t).
func (c *CreditCurve) Default(t float64) (float64, error) {
	q, err := c.Survival(t)
	if err != nil {
		return 0, err
	}
	return 1 - q, nil
}

// ConditionalDefaultProbability returns P(default in (t1,t2] | survived to t1).
func (c *CreditCurve) ConditionalDefaultProbability(t1, t2 float64) (float64, error) {
	q1, err := c.Survival(t1)
	if err != nil {
		return 0, err
	}
	q2, err := c.Survival(t2)
	if err != nil {
		return 0, err
	}
	if q1 == 0 {
		return 0, nil
	}
	return 1 - q2/q1, nil
}

// MarginalDefaultProbability returns the unconditional probability of
// default within (t1, t2].
func (c *CreditCurve) MarginalDefaultProbability(t1, t2 float64) (float64, error) {
	q1, err := c.Survival(t1)
	if err != nil {
		return 0, err
	}
	q2, err := c.Survival(t2)
	if err != nil {
		return 0, err
	}
	return q1 - q2, nil
}

// HazardRate returns the instantaneous default intensity lambda(t).
func (c *CreditCurve) HazardRate(t float64) (float64, error) {
	switch c.ts.ValueType().Kind {
	case valuetype.HazardRate:
		return c.ts.ValueAt(t), nil
	case valuetype.SurvivalProbability:
		return -c.ts.DerivativeAt(t) / c.ts.ValueAt(t), nil
	case valuetype.CreditSpread:
		vt := c.ts.ValueType()
		recovery := vt.Recovery
		if recovery == 0 {
			recovery = c.recovery
		}
		return valuetype.CreditSpreadToHazard(c.ts.ValueAt(t), recovery)
	default:
		return 0, valuetype.RequireDiscountFactor(c.ts.ValueType())
	}
}

// ImpliedConstantHazard returns the flat hazard rate that reproduces
// Q(t) exactly: -ln(Q(t))/t.
func (c *CreditCurve) ImpliedConstantHazard(t float64) (float64, error) {
	q, err := c.Survival(t)
	if err != nil {
		return 0, err
	}
	return valuetype.SurvivalToHazard(q, t)
}

// CreditSpread returns s(t) in decimal, computed as lambda(t)*(1-R).
func (c *CreditCurve) CreditSpread(t float64) (float64, error) {
	lambda, err := c.HazardRate(t)
	if err != nil {
		return 0, err
	}
	return lambda * (1 - c.recovery), nil
}

// CreditSpreadBps is CreditSpread scaled to basis points.
func (c *CreditCurve) CreditSpreadBps(t float64) (float64, error) {
	s, err := c.CreditSpread(t)
	if err != nil {
		return 0, err
	}
	return s * 10000, nil
}

// ExpectedLoss returns (1-R) * (1 - Q(t)), the expected loss fraction
// of notional by tenor t.
func (c *CreditCurve) ExpectedLoss(t float64) (float64, error) {
	pd, err := c.Default(t)
	if err != nil {
		return 0, err
	}
	return (1 - c.recovery) * pd, nil
}

// RiskyDiscountFactor combines this credit curve's survival with a
// risk-free discount curve's DF at t: P(t)*(Q(t) + (1-Q(t))*R).
func (c *CreditCurve) RiskyDiscountFactor(riskFree *RateCurve, t float64) (float64, error) {
	df, err := riskFree.DiscountFactor(t)
	if err != nil {
		return 0, err
	}
	q, err := c.Survival(t)
	if err != nil {
		return 0, err
	}
	return valuetype.RiskyDF(df, q, c.recovery), nil
}

// AnnualizedDefaultProbability returns the constant annual default
// rate implying the same t-year survival: 1 - Q(t)^(1/t).
func (c *CreditCurve) AnnualizedDefaultProbability(t float64) (float64, error) {
	q, err := c.Survival(t)
	if err != nil {
		return 0, err
	}
	if t <= 0 {
		return 0, nil
	}
	return 1 - math.Pow(q, 1/t), nil
}
