package instruments

import "github.com/jiangshenghai57/convexcore/pkg/curve"

// OIS is a single-period overnight-index swap quoted as a compounded
// average rate over the full maturity. Structurally it reprices like a
// deposit; it is modeled separately so its tolerance bucket and
// description stay distinct for diagnostics.
type OIS struct {
	Desc     string
	Maturity float64
	Rate     float64
	Tau      float64
}

func (o OIS) accrual() float64 {
	if o.Tau != 0 {
		return o.Tau
	}
	return o.Maturity
}

func (o OIS) Description() string  { return o.Desc }
func (o OIS) Kind() Kind           { return KindOIS }
func (o OIS) AnchorTenor() float64 { return o.Maturity }

func (o OIS) PV(c *curve.RateCurve) (float64, error) {
	df, err := anchorDF(c, o.Maturity)
	if err != nil {
		return 0, err
	}
	return (1+o.Rate*o.accrual())*df - 1, nil
}

func (o OIS) ImpliedDF(c *curve.RateCurve, targetPV float64) (float64, error) {
	denom := 1 + o.Rate*o.accrual()
	if denom == 0 {
		return 0, errDegenerate("OIS", o.Desc)
	}
	return (targetPV + 1) / denom, nil
}
