// Package daycount implements the year-fraction conventions used to
// turn a pair of calendar dates into the tenor inputs a term structure
// is indexed by. Every convention is a pure function of its inputs.
package daycount

import (
	"fmt"

	"github.com/jiangshenghai57/convexcore/pkg/date"
)

// Convention names the supported day-count rules.
type Convention int

const (
	Act360 Convention = iota
	Act365F
	ActActISDA
	ActActICMA
	ActActAFB
	Thirty360US
	Thirty360European
)

func (c Convention) String() string {
	switch c {
	case Act360:
		return "ACT/360"
	case Act365F:
		return "ACT/365F"
	case ActActISDA:
		return "ACT/ACT-ISDA"
	case ActActICMA:
		return "ACT/ACT-ICMA"
	case ActActAFB:
		return "ACT/ACT-AFB"
	case Thirty360US:
		return "30/360-US"
	case Thirty360European:
		return "30/360-EU"
	default:
		return fmt.Sprintf("Convention(%d)", int(c))
	}
}

// Period carries the surrounding coupon period an ACT/ACT-ICMA
// fraction needs. A zero Period means "no context available".
type Period struct {
	Start, End date.Date
	Frequency  int // coupon periods per year
}

func (p Period) isZero() bool {
	return p.Start.IsZero() && p.End.IsZero() && p.Frequency == 0
}

// YearFraction computes the year fraction between start and end under
// the named convention. It is always >= 0, and exactly 0 when
// end <= start. For ActActICMA, pass the enclosing coupon Period via
// period; if period is the zero value the result falls back to a
// frequency-adjusted approximation and imprecise reports true.
func YearFraction(c Convention, start, end date.Date, period Period) (fraction float64, imprecise bool) {
	if !end.After(start) {
		return 0, false
	}
	switch c {
	case Act360:
		return float64(start.DaysBetween(end)) / 360.0, false
	case Act365F:
		return float64(start.DaysBetween(end)) / 365.0, false
	case ActActISDA:
		return actActISDA(start, end), false
	case ActActAFB:
		return actActAFB(start, end), false
	case ActActICMA:
		return actActICMA(start, end, period)
	case Thirty360US:
		return thirty360(start, end, false), false
	case Thirty360European:
		return thirty360(start, end, true), false
	default:
		return float64(start.DaysBetween(end)) / 365.0, true
	}
}

func actActISDA(start, end date.Date) float64 {
	startYear, endYear := start.Year(), end.Year()
	if startYear == endYear {
		days := start.DaysBetween(end)
		return float64(days) / float64(date.DaysInYear(startYear))
	}

	total := 0.0

	endOfStartYear := date.New(startYear, 12, 31)
	daysInStartYear := start.DaysBetween(endOfStartYear) + 1
	total += float64(daysInStartYear) / float64(date.DaysInYear(startYear))

	for y := startYear + 1; y < endYear; y++ {
		total += 1.0
	}

	startOfEndYear := date.New(endYear, 1, 1)
	daysInEndYear := startOfEndYear.DaysBetween(end)
	total += float64(daysInEndYear) / float64(date.DaysInYear(endYear))

	return total
}

// actActICMA returns the frequency-adjusted approximation when no
// period context is given (imprecise=true), else the exact
// accrued-days/(frequency*period-days) fraction.
func actActICMA(start, end date.Date, period Period) (float64, bool) {
	if period.isZero() || period.Frequency <= 0 {
		freq := 2
		days := start.DaysBetween(end)
		approxPeriodDays := int64(365 / freq)
		return float64(days) / float64(int64(freq)*approxPeriodDays), true
	}

	periodDays := period.Start.DaysBetween(period.End)
	if periodDays <= 0 {
		return 0, true
	}
	accruedDays := start.DaysBetween(end)
	return float64(accruedDays) / (float64(period.Frequency) * float64(periodDays)), false
}

// actActAFB implements the AFB (French) rule: the basis is 366 if a
// Feb 29 falls within the one-year lookback window from the end date,
// 365 otherwise; periods over a year are split into full years plus a
// final fractional year evaluated the same way.
func actActAFB(start, end date.Date) float64 {
	totalDays := start.DaysBetween(end)
	if totalDays <= 366 {
		basis := 365
		if afbIs366Basis(start, end) {
			basis = 366
		}
		return float64(totalDays) / float64(basis)
	}

	fullYears := 0
	cursor := start
	for {
		next := cursor.AddYears(1)
		if next.After(end) {
			break
		}
		fullYears++
		cursor = next
	}

	remainingDays := cursor.DaysBetween(end)
	basis := 365
	if afbIs366Basis(cursor, end) {
		basis = 366
	}
	return float64(fullYears) + float64(remainingDays)/float64(basis)
}

func afbIs366Basis(start, end date.Date) bool {
	days := start.DaysBetween(end)
	if days <= 0 {
		return false
	}
	oneYearBack := date.New(end.Year()-1, end.Month(), end.Day())
	return afbPeriodContainsFeb29(oneYearBack, end)
}

func afbPeriodContainsFeb29(start, end date.Date) bool {
	for y := start.Year(); y <= end.Year(); y++ {
		if !date.IsLeapYear(y) {
			continue
		}
		feb29 := date.New(y, 2, 29)
		if feb29.After(start) && !feb29.After(end) {
			return true
		}
	}
	return false
}

// thirty360 implements the US (NASD/Bond-Basis) and European (ISDA)
// 30/360 variants, capping day-of-month at 30 with the standard
// end-of-February adjustments.
func thirty360(start, end date.Date, european bool) float64 {
	d1, d2 := start.Day(), end.Day()
	m1, m2 := int(start.Month()), int(end.Month())
	y1, y2 := start.Year(), end.Year()

	if european {
		if d1 == 31 {
			d1 = 30
		}
		if d2 == 31 {
			d2 = 30
		}
	} else {
		lastDayFeb1 := isLastDayOfFebruary(start)
		lastDayFeb2 := isLastDayOfFebruary(end)
		if lastDayFeb1 && lastDayFeb2 {
			d2 = 30
		}
		if lastDayFeb1 {
			d1 = 30
		}
		if d2 == 31 && (d1 == 30 || d1 == 31) {
			d2 = 30
		}
		if d1 == 31 {
			d1 = 30
		}
	}

	days := 360*(y2-y1) + 30*(m2-m1) + (d2 - d1)
	return float64(days) / 360.0
}

func isLastDayOfFebruary(d date.Date) bool {
	if d.Month() != 2 {
		return false
	}
	last := 28
	if date.IsLeapYear(d.Year()) {
		last = 29
	}
	return d.Day() == last
}
