package instruments

import "github.com/jiangshenghai57/convexcore/pkg/curve"

// ZeroCouponBond prices a single redemption against a dirty market
// price, anchored at maturity.
type ZeroCouponBond struct {
	Desc       string
	Maturity   float64
	Face       float64
	DirtyPrice float64
}

func (z ZeroCouponBond) Description() string  { return z.Desc }
func (z ZeroCouponBond) Kind() Kind           { return KindZeroCouponBond }
func (z ZeroCouponBond) AnchorTenor() float64 { return z.Maturity }

// PV implements pv = Face*DF(T) - DirtyPrice.
func (z ZeroCouponBond) PV(c *curve.RateCurve) (float64, error) {
	df, err := anchorDF(c, z.Maturity)
	if err != nil {
		return 0, err
	}
	return z.Face*df - z.DirtyPrice, nil
}

func (z ZeroCouponBond) ImpliedDF(c *curve.RateCurve, targetPV float64) (float64, error) {
	if z.Face == 0 {
		return 0, errDegenerate("ZeroCouponBond", z.Desc)
	}
	return (targetPV + z.DirtyPrice) / z.Face, nil
}

// CouponBond prices a schedule of coupon cash flows plus redemption
// against a dirty market price. CashFlowTenors and CashFlowAmounts are
// parallel, ascending arrays; the last entry includes the redemption
// amount. Anchor tenor is the final maturity.
type CouponBond struct {
	Desc            string
	CashFlowTenors  []float64
	CashFlowAmounts []float64
	DirtyPrice      float64
}

func (b CouponBond) Description() string { return b.Desc }
func (b CouponBond) Kind() Kind          { return KindCouponBond }
func (b CouponBond) AnchorTenor() float64 {
	return b.CashFlowTenors[len(b.CashFlowTenors)-1]
}

func (b CouponBond) pvExcludingLast(c *curve.RateCurve) (float64, error) {
	sum := 0.0
	for i := 0; i < len(b.CashFlowTenors)-1; i++ {
		df, err := anchorDF(c, b.CashFlowTenors[i])
		if err != nil {
			return 0, err
		}
		sum += b.CashFlowAmounts[i] * df
	}
	return sum, nil
}

// PV implements pv = sum(DF(T_i)*cf_i) - DirtyPrice.
func (b CouponBond) PV(c *curve.RateCurve) (float64, error) {
	exLast, err := b.pvExcludingLast(c)
	if err != nil {
		return 0, err
	}
	n := len(b.CashFlowTenors) - 1
	dfN, err := anchorDF(c, b.CashFlowTenors[n])
	if err != nil {
		return 0, err
	}
	return exLast + b.CashFlowAmounts[n]*dfN - b.DirtyPrice, nil
}

// ImpliedDF solves for DF at the final cash flow tenor holding every
// earlier cash flow's discount factor fixed:
//
//	pv = exLast + cf_N*DF_N - DirtyPrice = targetPV
//	DF_N = (targetPV + DirtyPrice - exLast) / cf_N
func (b CouponBond) ImpliedDF(c *curve.RateCurve, targetPV float64) (float64, error) {
	exLast, err := b.pvExcludingLast(c)
	if err != nil {
		return 0, err
	}
	n := len(b.CashFlowTenors) - 1
	if b.CashFlowAmounts[n] == 0 {
		return 0, errDegenerate("CouponBond", b.Desc)
	}
	return (targetPV + b.DirtyPrice - exLast) / b.CashFlowAmounts[n], nil
}
