package instruments

import "github.com/jiangshenghai57/convexcore/pkg/curve"

// FRA is a forward rate agreement over [T1, T2] at strike K. Its
// anchor tenor is T2, the second fixing date.
type FRA struct {
	Desc   string
	T1, T2 float64
	Strike float64
	Tau    float64 // accrual over (T1, T2); defaults to T2-T1 if zero
}

func (f FRA) accrual() float64 {
	if f.Tau != 0 {
		return f.Tau
	}
	return f.T2 - f.T1
}

func (f FRA) Description() string  { return f.Desc }
func (f FRA) Kind() Kind           { return KindFRA }
func (f FRA) AnchorTenor() float64 { return f.T2 }

// PV implements pv = DF(T1) - (1 + K*tau)*DF(T2).
func (f FRA) PV(c *curve.RateCurve) (float64, error) {
	df1, err := anchorDF(c, f.T1)
	if err != nil {
		return 0, err
	}
	df2, err := anchorDF(c, f.T2)
	if err != nil {
		return 0, err
	}
	return df1 - (1+f.Strike*f.accrual())*df2, nil
}

func (f FRA) ImpliedDF(c *curve.RateCurve, targetPV float64) (float64, error) {
	df1, err := anchorDF(c, f.T1)
	if err != nil {
		return 0, err
	}
	denom := 1 + f.Strike*f.accrual()
	if denom == 0 {
		return 0, errDegenerate("FRA", f.Desc)
	}
	return (df1 - targetPV) / denom, nil
}
