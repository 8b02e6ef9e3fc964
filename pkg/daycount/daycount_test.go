package daycount

import (
	"math"
	"testing"
	stdtime "time"

	"github.com/jiangshenghai57/convexcore/pkg/date"
)

func d(y int, m, day int) date.Date {
	return date.New(y, stdtime.Month(m), day)
}

func TestZeroWhenEndNotAfterStart(t *testing.T) {
	a := d(2024, 1, 1)
	for _, c := range []Convention{Act360, Act365F, ActActISDA, ActActICMA, ActActAFB, Thirty360US, Thirty360European} {
		yf, _ := YearFraction(c, a, a, Period{})
		if yf != 0 {
			t.Errorf("%v: expected 0 at equal dates, got %v", c, yf)
		}
		yfBefore, _ := YearFraction(c, a, d(2023, 1, 1), Period{})
		if yfBefore != 0 {
			t.Errorf("%v: expected 0 when end before start, got %v", c, yfBefore)
		}
	}
}

func TestAct360Additivity(t *testing.T) {
	a, b, c := d(2024, 1, 2), d(2024, 6, 15), d(2025, 1, 2)
	ab, _ := YearFraction(Act360, a, b, Period{})
	bc, _ := YearFraction(Act360, b, c, Period{})
	ac, _ := YearFraction(Act360, a, c, Period{})
	if math.Abs((ab+bc)-ac) > 1e-12 {
		t.Errorf("additivity violated: %v + %v != %v", ab, bc, ac)
	}
}

func TestAct365FAdditivity(t *testing.T) {
	a, b, c := d(2024, 1, 2), d(2024, 6, 15), d(2025, 1, 2)
	ab, _ := YearFraction(Act365F, a, b, Period{})
	bc, _ := YearFraction(Act365F, b, c, Period{})
	ac, _ := YearFraction(Act365F, a, c, Period{})
	if math.Abs((ab+bc)-ac) > 1e-12 {
		t.Errorf("additivity violated: %v + %v != %v", ab, bc, ac)
	}
}

func Test30360Additivity(t *testing.T) {
	a, b, c := d(2024, 1, 2), d(2024, 6, 15), d(2025, 1, 2)
	for _, conv := range []Convention{Thirty360US, Thirty360European} {
		ab, _ := YearFraction(conv, a, b, Period{})
		bc, _ := YearFraction(conv, b, c, Period{})
		ac, _ := YearFraction(conv, a, c, Period{})
		if math.Abs((ab+bc)-ac) > 1e-9 {
			t.Errorf("%v: additivity violated: %v + %v != %v", conv, ab, bc, ac)
		}
	}
}

func TestAct360KnownValue(t *testing.T) {
	start := d(2024, 1, 2)
	end := start.AddDays(365)
	yf, _ := YearFraction(Act360, start, end, Period{})
	want := 365.0 / 360.0
	if math.Abs(yf-want) > 1e-12 {
		t.Errorf("got %v want %v", yf, want)
	}
}

func TestActActISDASplitsAcrossYears(t *testing.T) {
	start := d(2024, 7, 1)
	end := d(2025, 7, 1)
	yf, _ := YearFraction(ActActISDA, start, end, Period{})
	if yf < 0.99 || yf > 1.01 {
		t.Errorf("expected ~1.0 year, got %v", yf)
	}
}

func TestActActICMAWithPeriod(t *testing.T) {
	periodStart := d(2024, 1, 15)
	periodEnd := d(2024, 7, 15)
	settlement := d(2024, 4, 15)
	period := Period{Start: periodStart, End: periodEnd, Frequency: 2}

	yf, imprecise := YearFraction(ActActICMA, periodStart, settlement, period)
	if imprecise {
		t.Error("expected precise result with period context")
	}
	if yf <= 0 || yf >= 0.5 {
		t.Errorf("expected partial-period fraction in (0, 0.5), got %v", yf)
	}
}

func TestActActICMAWithoutPeriodIsImprecise(t *testing.T) {
	start := d(2024, 1, 15)
	end := d(2024, 4, 15)
	_, imprecise := YearFraction(ActActICMA, start, end, Period{})
	if !imprecise {
		t.Error("expected imprecise flag without period context")
	}
}

func TestActActAFBFeb29Basis(t *testing.T) {
	// Period spanning Feb 29 2024 should use 366 basis.
	start := d(2024, 1, 1)
	end := d(2024, 12, 31)
	yf := actActAFB(start, end)
	days := float64(start.DaysBetween(end))
	want := days / 366.0
	if math.Abs(yf-want) > 1e-9 {
		t.Errorf("expected 366-day basis, got %v want %v", yf, want)
	}
}

func Test30360EndOfFebruary(t *testing.T) {
	start := d(2024, 2, 29) // leap year end-of-Feb
	end := d(2024, 3, 31)
	yf, _ := YearFraction(Thirty360US, start, end, Period{})
	if yf <= 0 {
		t.Errorf("expected positive fraction, got %v", yf)
	}
}

func TestConventionString(t *testing.T) {
	if Act360.String() != "ACT/360" {
		t.Errorf("unexpected name: %s", Act360.String())
	}
}
