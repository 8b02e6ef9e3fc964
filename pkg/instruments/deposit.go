package instruments

import "github.com/jiangshenghai57/convexcore/pkg/curve"

// Deposit accrues simple interest between the reference date and
// maturity. Its anchor tenor is the maturity tenor.
type Deposit struct {
	Desc     string
	Maturity float64 // tenor in years
	Rate     float64 // quoted simple rate
	Tau      float64 // accrual fraction; defaults to Maturity if zero
}

func (d Deposit) accrual() float64 {
	if d.Tau != 0 {
		return d.Tau
	}
	return d.Maturity
}

func (d Deposit) Description() string  { return d.Desc }
func (d Deposit) Kind() Kind           { return KindDeposit }
func (d Deposit) AnchorTenor() float64 { return d.Maturity }

// PV implements pv = (1 + r*tau)*DF(T) - 1, zero on a curve that
// exactly reprices the deposit.
func (d Deposit) PV(c *curve.RateCurve) (float64, error) {
	df, err := anchorDF(c, d.Maturity)
	if err != nil {
		return 0, err
	}
	return (1+d.Rate*d.accrual())*df - 1, nil
}

func (d Deposit) ImpliedDF(c *curve.RateCurve, targetPV float64) (float64, error) {
	tau := d.accrual()
	denom := 1 + d.Rate*tau
	if denom == 0 {
		return 0, errDegenerate("Deposit", d.Desc)
	}
	return (targetPV + 1) / denom, nil
}
