package instruments

import "github.com/jiangshenghai57/convexcore/pkg/curve"

// IRS is a fixed-for-floating interest rate swap. Under the
// single-curve assumption, the floating leg's present value reduces to
// 1 - DF(final maturity); the fixed leg is the sum of K*tau_i*DF(T_i)
// across the payment schedule. Anchor tenor is the final maturity.
type IRS struct {
	Desc             string
	PaymentTenors    []float64 // ascending, last entry is final maturity
	AccrualFractions []float64 // accrual fraction per payment, same length
	FixedRate        float64
}

func (s IRS) Description() string { return s.Desc }
func (s IRS) Kind() Kind          { return KindIRS }
func (s IRS) AnchorTenor() float64 {
	return s.PaymentTenors[len(s.PaymentTenors)-1]
}

func (s IRS) fixedLegExcludingLast(c *curve.RateCurve) (float64, error) {
	sum := 0.0
	for i := 0; i < len(s.PaymentTenors)-1; i++ {
		df, err := anchorDF(c, s.PaymentTenors[i])
		if err != nil {
			return 0, err
		}
		sum += s.FixedRate * s.AccrualFractions[i] * df
	}
	return sum, nil
}

// PV implements pv = fixedLegPV - floatingLegPV, zero at par.
func (s IRS) PV(c *curve.RateCurve) (float64, error) {
	fixedExLast, err := s.fixedLegExcludingLast(c)
	if err != nil {
		return 0, err
	}
	n := len(s.PaymentTenors) - 1
	dfN, err := anchorDF(c, s.PaymentTenors[n])
	if err != nil {
		return 0, err
	}
	fixedLast := s.FixedRate * s.AccrualFractions[n] * dfN
	floatingLeg := 1 - dfN
	return fixedExLast + fixedLast - floatingLeg, nil
}

// ImpliedDF solves for DF at the final maturity holding every earlier
// fixed-leg discount factor fixed:
//
//	pv = fixedExLast + K*tau_N*DF_N - (1 - DF_N) = targetPV
//	DF_N*(K*tau_N + 1) = targetPV + 1 - fixedExLast
func (s IRS) ImpliedDF(c *curve.RateCurve, targetPV float64) (float64, error) {
	fixedExLast, err := s.fixedLegExcludingLast(c)
	if err != nil {
		return 0, err
	}
	n := len(s.PaymentTenors) - 1
	denom := s.FixedRate*s.AccrualFractions[n] + 1
	if denom == 0 {
		return 0, errDegenerate("IRS", s.Desc)
	}
	return (targetPV + 1 - fixedExLast) / denom, nil
}
