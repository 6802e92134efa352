package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Month is a calendar month, January = 1.
type Month int

const (
	January Month = iota + 1
	February
	March
	April
	May
	June
	July
	August
	September
	October
	November
	December
)

// Valid reports whether m is in [January, December].
func (m Month) Valid() bool {
	return m >= January && m <= December
}

// String returns the English month name.
func (m Month) String() string {
	if !m.Valid() {
		return "Month(" + strconv.Itoa(int(m)) + ")"
	}
	return time.Month(m).String()
}

// Year is a calendar year.
type Year int

// Day is a 1-based day of the month.
type Day int

// MaxDay is the length of the longest month.
const MaxDay Day = 31

// IsLeapYear applies the Gregorian rule: divisible by 4 and not by 100,
// unless divisible by 400.
func IsLeapYear(y Year) bool {
	return (y%4 == 0 && y%100 != 0) || y%400 == 0
}

// DaysIn returns the number of days of month m in year y, or 0 for an
// invalid month.
func DaysIn(m Month, y Year) int {
	switch m {
	case January, March, May, July, August, October, December:
		return 31
	case April, June, September, November:
		return 30
	case February:
		if IsLeapYear(y) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

// ValidateDay checks that day exists in month m of year y.
func ValidateDay(day int, m Month, y Year) (Day, error) {
	if !m.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidMonth, int(m))
	}
	if day <= 0 || day > DaysIn(m, y) {
		return 0, fmt.Errorf("%w: %d %s %d", ErrInvalidDay, day, m, y)
	}
	return Day(day), nil
}

// ParseDay parses a decimal day number and validates it against m and y.
func ParseDay(text string, m Month, y Year) (Day, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDayText, text)
	}
	return ValidateDay(n, m, y)
}

// Period identifies one monthly ledger.
type Period struct {
	Year  Year
	Month Month
}

// NewPeriod returns the period for year y and month m.
func NewPeriod(y Year, m Month) Period {
	return Period{Year: y, Month: m}
}

// PeriodOf returns the period t falls in, in t's location.
func PeriodOf(t time.Time) Period {
	return Period{Year: Year(t.Year()), Month: Month(t.Month())}
}

// ParsePeriod parses a "YYYY-MM" string.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return Period{}, fmt.Errorf("%w: period %q", ErrParse, s)
	}
	return PeriodOf(t), nil
}

// String returns the period formatted as YYYY-MM.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", int(p.Year), int(p.Month))
}

// Key returns the YYYY_MM form used to name the period's data file.
func (p Period) Key() string {
	return fmt.Sprintf("%04d_%02d", int(p.Year), int(p.Month))
}

// Valid reports whether the month is valid.
func (p Period) Valid() bool {
	return p.Month.Valid()
}

// Days returns the number of days in the period.
func (p Period) Days() int {
	return DaysIn(p.Month, p.Year)
}

// Next returns the following month.
func (p Period) Next() Period {
	if p.Month == December {
		return Period{Year: p.Year + 1, Month: January}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}

// Prev returns the preceding month.
func (p Period) Prev() Period {
	if p.Month == January {
		return Period{Year: p.Year - 1, Month: December}
	}
	return Period{Year: p.Year, Month: p.Month - 1}
}
