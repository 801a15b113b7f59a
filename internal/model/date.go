package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date is a calendar day without a time component.
type Date struct {
	Day   int
	Month Month
	Year  int
}

// NewDate validates day against the month's length, leap years included.
func NewDate(day int, month Month, year int) (Date, error) {
	if !month.Valid() {
		return Date{}, fmt.Errorf("%w: %w: %d", ErrInvalidDate, ErrInvalidMonth, int(month))
	}
	if year <= 0 {
		return Date{}, fmt.Errorf("%w: year must be positive, got %d", ErrInvalidDate, year)
	}
	if last := DaysIn(month, year); day < 1 || day > last {
		return Date{}, fmt.Errorf("%w: day %d for %s %d", ErrInvalidDate, day, month, year)
	}
	return Date{Day: day, Month: month, Year: year}, nil
}

// DaysIn returns the number of days in month of year.
func DaysIn(month Month, year int) int {
	switch month {
	case April, June, September, November:
		return 30
	case February:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 31
	}
}

// IsLeapYear applies the Gregorian rule.
func IsLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// ParseDate parses "DD/MM/YYYY" with a four-digit year.
func ParseDate(s string) (Date, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("%w: %q, expected DD/MM/YYYY", ErrInvalidDate, s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Date{}, fmt.Errorf("%w: %q, expected DD/MM/YYYY", ErrInvalidDate, s)
		}
		nums[i] = n
	}
	if nums[2] < 1000 || nums[2] > 9999 {
		return Date{}, fmt.Errorf("%w: %q, year must be a 4-digit number", ErrInvalidDate, s)
	}
	return NewDate(nums[0], Month(nums[1]), nums[2])
}

// DateOf converts a time.Time to its calendar date.
func DateOf(t time.Time) Date {
	return Date{Day: t.Day(), Month: Month(t.Month()), Year: t.Year()}
}

// Compare returns -1, 0 or +1.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return sign(d.Year - o.Year)
	case d.Month != o.Month:
		return sign(int(d.Month) - int(o.Month))
	default:
		return sign(d.Day - o.Day)
	}
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.Compare(o) > 0 }

// Short renders "DD/MM/YYYY".
func (d Date) Short() string {
	return fmt.Sprintf("%02d/%s/%d", d.Day, d.Month.Number(), d.Year)
}

// Long renders "3rd of March, 2025".
func (d Date) Long() string {
	return fmt.Sprintf("%d%s of %s, %d", d.Day, DaySuffix(d.Day), d.Month.LongName(), d.Year)
}

func (d Date) String() string { return d.Short() }

// DaySuffix returns the English ordinal suffix for a day of month.
func DaySuffix(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
