package oas

import (
	"math"
	"testing"
)

func approx(t *testing.T, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("got %v want %v (tol %v)", got, want, tol)
	}
}

func flatZero(rate float64) ZeroRateFunc {
	return func(float64) float64 { return rate }
}

func bulletBond() CallableBond {
	return CallableBond{
		Desc:          "5Y 4% bullet",
		Face:          100,
		CouponTenors:  []float64{1, 2, 3, 4, 5},
		CouponAmounts: []float64{4, 4, 4, 4, 4},
		Maturity:      5,
	}
}

func callableBond() CallableBond {
	b := bulletBond()
	b.Desc = "5Y 4% callable at 101 from year 2"
	b.CallSchedule = []CallDate{
		{Tenor: 2, Price: 101, Type: CallBermudan},
		{Tenor: 3, Price: 100.5, Type: CallBermudan},
		{Tenor: 4, Price: 100, Type: CallBermudan},
	}
	return b
}

func TestPriceWithOASRejectsSettlementAtOrAfterMaturity(t *testing.T) {
	_, err := PriceWithOAS(bulletBond(), flatZero(0.03), 5, 0, 0.01, 0.03, 50)
	if err == nil {
		t.Fatal("expected error for settlement at maturity")
	}
}

func TestPriceWithOASMonotonicDecreasingInSpread(t *testing.T) {
	bond := callableBond()
	zero := flatZero(0.035)
	p1, err := PriceWithOAS(bond, zero, 0, 0.00, 0.01, 0.03, 100)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := PriceWithOAS(bond, zero, 0, 0.01, 0.01, 0.03, 100)
	if err != nil {
		t.Fatal(err)
	}
	if p2 >= p1 {
		t.Fatalf("expected price to fall as spread rises: p(0)=%v p(100bp)=%v", p1, p2)
	}
}

func TestOASRoundTrip(t *testing.T) {
	bond := callableBond()
	zero := flatZero(0.035)
	solver := NewHighPrecisionOASSolver()

	trueSpread := 0.004
	price, err := PriceWithOAS(bond, zero, 0, trueSpread, solver.Volatility, solver.MeanReversion, solver.TreeSteps)
	if err != nil {
		t.Fatal(err)
	}

	result, err := Calculate(solver, bond, zero, price, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Converged {
		t.Fatal("expected bisection to converge")
	}
	approx(t, result.OASBps, trueSpread*10000, 1.0)
}

// TestAmericanCallNoMoreValuableToHolderThanBermudan checks the dense
// exercise window: an American call exercisable any time from year 2
// can never leave the holder with more value than the single-date
// Bermudan call at the same price.
func TestAmericanCallNoMoreValuableToHolderThanBermudan(t *testing.T) {
	american := bulletBond()
	american.CallSchedule = []CallDate{{Tenor: 2, Price: 100, Type: CallAmerican}}
	bermudan := bulletBond()
	bermudan.CallSchedule = []CallDate{{Tenor: 2, Price: 100, Type: CallBermudan}}

	zero := flatZero(0.02)
	pAmerican, err := PriceWithOAS(american, zero, 0, 0, 0.01, 0.03, 200)
	if err != nil {
		t.Fatal(err)
	}
	pBermudan, err := PriceWithOAS(bermudan, zero, 0, 0, 0.01, 0.03, 200)
	if err != nil {
		t.Fatal(err)
	}
	if pAmerican > pBermudan+1e-9 {
		t.Fatalf("American call priced above Bermudan: %v > %v", pAmerican, pBermudan)
	}

	pBullet, err := PriceWithOAS(bulletBond(), zero, 0, 0, 0.01, 0.03, 200)
	if err != nil {
		t.Fatal(err)
	}
	if pAmerican >= pBullet {
		t.Fatalf("expected the call option to strip value: callable=%v bullet=%v", pAmerican, pBullet)
	}
}

// TestAmericanStepDownCallSchedule prices a 5% semiannual callable with
// a declining American call schedule on a flat 5% curve and checks the
// price stays in a sane band and falls as the spread rises.
func TestAmericanStepDownCallSchedule(t *testing.T) {
	semi := CallableBond{
		Desc:          "5Y 5% semiannual step-down callable",
		Face:          100,
		CouponTenors:  []float64{0.5, 1, 1.5, 2, 2.5, 3, 3.5, 4, 4.5, 5},
		CouponAmounts: []float64{2.5, 2.5, 2.5, 2.5, 2.5, 2.5, 2.5, 2.5, 2.5, 2.5},
		Maturity:      5,
		CallSchedule: []CallDate{
			{Tenor: 1, Price: 102, Type: CallAmerican},
			{Tenor: 3, Price: 101, Type: CallAmerican},
			{Tenor: 4, Price: 100, Type: CallAmerican},
		},
	}
	zero := flatZero(0.05)

	p0, err := PriceWithOAS(semi, zero, 0, 0, 0.01, 0.03, 100)
	if err != nil {
		t.Fatal(err)
	}
	if p0 <= 70 || p0 >= 130 {
		t.Fatalf("price out of sanity band: %v", p0)
	}

	pMinus, err := PriceWithOAS(semi, zero, 0, -0.01, 0.01, 0.03, 100)
	if err != nil {
		t.Fatal(err)
	}
	pPlus, err := PriceWithOAS(semi, zero, 0, 0.01, 0.01, 0.03, 100)
	if err != nil {
		t.Fatal(err)
	}
	if !(pMinus > p0 && p0 > pPlus) {
		t.Fatalf("expected strictly decreasing prices in spread: %v, %v, %v", pMinus, p0, pPlus)
	}
}

func TestOptionValueNonNegative(t *testing.T) {
	bond := callableBond()
	zero := flatZero(0.035)
	solver := NewDefaultOASSolver()

	ov, err := OptionValue(solver, bond, zero, 0, 0.002)
	if err != nil {
		t.Fatal(err)
	}
	if ov < -0.01 {
		t.Fatalf("expected option value >= -0.01, got %v", ov)
	}
}

func TestEffectiveDurationNonNegativeForBulletBond(t *testing.T) {
	bond := bulletBond()
	zero := flatZero(0.035)
	solver := NewDefaultOASSolver()

	dur, err := EffectiveDuration(solver, bond, zero, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if dur < 0 {
		t.Fatalf("expected non-negative duration for a bullet bond, got %v", dur)
	}
}

func TestOASDurationMatchesEffectiveDurationInAdditiveModel(t *testing.T) {
	bond := callableBond()
	zero := flatZero(0.035)
	solver := NewDefaultOASSolver()

	ed, err := EffectiveDuration(solver, bond, zero, 0, 0.002)
	if err != nil {
		t.Fatal(err)
	}
	od, err := OASDuration(solver, bond, zero, 0, 0.002)
	if err != nil {
		t.Fatal(err)
	}
	approx(t, ed, od, 1e-15)
}
