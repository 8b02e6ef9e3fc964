// Package instruments models the market quotes a curve is calibrated
// to: deposits, FRAs, OIS, interest rate swaps, zero-coupon bonds and
// coupon bonds. Each implements two contracts against a curve: PV
// (model present value) and ImpliedDF (solve for the discount factor
// at its own anchor tenor that reprices a target PV), the latter used
// by the sequential bootstrapper.
package instruments

import (
	"fmt"

	"github.com/jiangshenghai57/convexcore/pkg/curve"
)

// Kind tags an instrument for tolerance lookup and diagnostics.
type Kind int

const (
	KindDeposit Kind = iota
	KindFRA
	KindOIS
	KindIRS
	KindZeroCouponBond
	KindCouponBond
)

func (k Kind) String() string {
	switch k {
	case KindDeposit:
		return "Deposit"
	case KindFRA:
		return "FRA"
	case KindOIS:
		return "OIS"
	case KindIRS:
		return "IRS"
	case KindZeroCouponBond:
		return "ZeroCouponBond"
	case KindCouponBond:
		return "CouponBond"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ToleranceNearMachinePrecision is the published PV tolerance, in
// absolute price units for unit notional, used by repricing validation
// for single-cashflow instruments (deposits, FRAs, OIS, zero-coupon
// bonds).
const ToleranceNearMachinePrecision = 1e-9

// ToleranceMultiPeriod is the published PV tolerance for instruments
// whose pricing sums several discount factors (swaps, coupon bonds),
// where the accumulation of per-leg rounding widens the acceptable band.
const ToleranceMultiPeriod = 1e-6

// Tolerance returns the published repricing tolerance for kind.
func Tolerance(k Kind) float64 {
	switch k {
	case KindIRS, KindCouponBond:
		return ToleranceMultiPeriod
	default:
		return ToleranceNearMachinePrecision
	}
}

// Instrument is the polymorphic market quote the calibrators consume.
type Instrument interface {
	Description() string
	Kind() Kind
	// AnchorTenor is the tenor (years) this instrument anchors in the
	// bootstrap ordering.
	AnchorTenor() float64
	// PV returns the model net present value on curve c, per unit
	// notional (or per unit face for bonds).
	PV(c *curve.RateCurve) (float64, error)
	// ImpliedDF solves for the discount factor at AnchorTenor that
	// would make PV(c') equal targetPV, holding every other pillar
	// of c fixed.
	ImpliedDF(c *curve.RateCurve, targetPV float64) (float64, error)
}

func anchorDF(c *curve.RateCurve, tenor float64) (float64, error) {
	df, err := c.DiscountFactor(tenor)
	if err != nil {
		return 0, fmt.Errorf("instruments: discount factor at %v: %w", tenor, err)
	}
	return df, nil
}
