package amortization

import (
	"fmt"

	"github.com/jiangshenghai57/convexcore/pkg/curve"
	"github.com/shopspring/decimal"
)

// PresentValue discounts an amortization table's total monthly cash
// flow (scheduled principal + prepayment + interest) against a rate
// curve, with period j's cash flow landing at tenor
// settlement + (j+1)/12 years. It is the bridge between a mortgage
// pool's cash-flow schedule and the curve package's discount factors,
// so a pool can be priced the same way the calibration instruments
// are.
func PresentValue(table AmortizationTable, c *curve.RateCurve, settlement float64) (decimal.Decimal, error) {
	pv := decimal.Zero
	for j, period := range table.Period {
		cashflow := table.Principal[j].Add(table.PrepayAmount[j]).Add(table.Interest[j])
		tenor := settlement + float64(period)/12.0
		df, err := c.DiscountFactor(tenor)
		if err != nil {
			return decimal.Zero, fmt.Errorf("amortization: discounting period %d: %w", period, err)
		}
		pv = pv.Add(cashflow.Mul(decimal.NewFromFloat(df)))
	}
	return pv, nil
}
