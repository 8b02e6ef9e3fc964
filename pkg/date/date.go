// Package date provides an immutable calendar date used throughout the
// curve, instrument, and lattice packages. Curve indexing is always by
// tenor-in-years; Date exists only to translate calendar points into
// tenors via a day-count convention.
package date

import (
	"fmt"
	"time"
)

// Date is an absolute calendar date at day precision. It carries no
// time-of-day or time zone component, so two Dates compare equal iff
// they name the same calendar day.
type Date struct {
	t time.Time
}

// New builds a Date from a year/month/day triple. Out-of-range values
// normalize the way time.Date does (e.g. month 13 rolls to next year).
func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates a time.Time down to its calendar day in UTC.
func FromTime(t time.Time) Date {
	t = t.UTC()
	return New(t.Year(), t.Month(), t.Day())
}

// Parse reads a date in ISO-8601 day precision (YYYY-MM-DD).
func Parse(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("date: parse %q: %w", s, err)
	}
	return FromTime(t), nil
}

// String renders the date as ISO-8601 day precision.
func (d Date) String() string {
	return d.t.Format("2006-01-02")
}

// Year, Month, Day return the calendar components.
func (d Date) Year() int        { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int         { return d.t.Day() }

// IsZero reports whether this is the zero Date value.
func (d Date) IsZero() bool { return d.t.IsZero() }

// Before, After, Equal mirror time.Time's ordering.
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool  { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }

// Compare returns -1, 0, or 1 as d is before, equal to, or after o.
func (d Date) Compare(o Date) int {
	switch {
	case d.Before(o):
		return -1
	case d.After(o):
		return 1
	default:
		return 0
	}
}

// DaysBetween returns the signed whole-day count from d to o.
func (d Date) DaysBetween(o Date) int64 {
	return int64(o.t.Sub(d.t).Hours() / 24)
}

// AddDays returns a new Date n calendar days later (n may be negative).
func (d Date) AddDays(n int64) Date {
	return Date{t: d.t.AddDate(0, 0, int(n))}
}

// AddMonths returns a new Date n calendar months later, clamping to the
// last valid day of the target month (e.g. Jan 31 + 1 month = Feb 28/29).
func (d Date) AddMonths(n int) Date {
	first := time.Date(d.t.Year(), d.t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	last := first.AddDate(0, 1, -1).Day()
	day := d.t.Day()
	if day > last {
		day = last
	}
	return New(first.Year(), first.Month(), day)
}

// AddYears returns a new Date n calendar years later.
func (d Date) AddYears(n int) Date {
	return d.AddMonths(12 * n)
}

// IsLeapYear reports whether the date's calendar year is a leap year.
func (d Date) IsLeapYear() bool {
	return IsLeapYear(d.t.Year())
}

// IsLeapYear reports whether the given calendar year is a leap year.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInYear returns 366 for a leap year, 365 otherwise.
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// Min returns the earlier of two dates.
func Min(a, b Date) Date {
	if a.Before(b) {
		return a
	}
	return b
}

// Max returns the later of two dates.
func Max(a, b Date) Date {
	if a.After(b) {
		return a
	}
	return b
}
