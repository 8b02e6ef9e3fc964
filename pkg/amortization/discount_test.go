package amortization

import (
	"testing"

	"github.com/jiangshenghai57/convexcore/pkg/curve"
	"github.com/jiangshenghai57/convexcore/pkg/date"
)

func flatDiscountCurve(t *testing.T, rate float64) *curve.RateCurve {
	t.Helper()
	ts, err := curve.NewDiscountCurveBuilder(date.New(2026, 1, 1)).
		WithOriginPillar().
		WithPillar(40, decayDF(rate, 40)).
		Build()
	if err != nil {
		t.Fatalf("building flat discount curve: %v", err)
	}
	return curve.NewRateCurve(ts, 0, 0)
}

func decayDF(rate, t float64) float64 {
	return 1.0 / pow(1+rate, t)
}

func pow(base, exp float64) float64 {
	result := 1.0
	for i := 0.0; i < exp; i++ {
		result *= base
	}
	return result
}

func TestPresentValuePositiveForPerformingLoan(t *testing.T) {
	l := LoanInfo{ID: "LOAN001", Wam: 60, Wac: 4.5, Face: 100000}
	table := l.GetAmortizationTable()
	c := flatDiscountCurve(t, 0.03)

	pv, err := PresentValue(table, c, 0)
	if err != nil {
		t.Fatal(err)
	}
	if pv.IsNegative() || pv.IsZero() {
		t.Fatalf("expected a positive present value, got %v", pv)
	}
}
