package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Month is a calendar month, January = 1.
type Month int

const (
	January Month = 1 + iota
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

var monthNames = [...]struct{ short, long string }{
	{"JAN", "January"},
	{"FEB", "February"},
	{"MAR", "March"},
	{"APR", "April"},
	{"MAY", "May"},
	{"JUN", "June"},
	{"JUL", "July"},
	{"AUG", "August"},
	{"SEP", "September"},
	{"OCT", "October"},
	{"NOV", "November"},
	{"DEC", "December"},
}

// Months returns January through December.
func Months() []Month {
	out := make([]Month, 0, 12)
	for m := January; m <= December; m++ {
		out = append(out, m)
	}
	return out
}

// Valid reports whether m is in 1..12.
func (m Month) Valid() bool { return m >= January && m <= December }

// String returns the three-letter token, e.g. "JAN".
func (m Month) String() string {
	if !m.Valid() {
		return "Month(" + strconv.Itoa(int(m)) + ")"
	}
	return monthNames[m-1].short
}

// LongName returns the full English name, e.g. "January".
func (m Month) LongName() string {
	if !m.Valid() {
		return m.String()
	}
	return monthNames[m-1].long
}

// Number returns the zero-padded month number, e.g. "01".
func (m Month) Number() string {
	return fmt.Sprintf("%02d", int(m))
}

// ParseMonth accepts "JAN", "jan" or "January".
func ParseMonth(s string) (Month, error) {
	in := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range monthNames {
		if in == n.short || in == strings.ToUpper(n.long) {
			return Month(i + 1), nil
		}
	}
	return 0, fmt.Errorf("%w: %q (use JAN, FEB, ... DEC)", ErrInvalidMonth, s)
}

// MonthFromNumber converts 1..12 into a Month.
func MonthFromNumber(n int) (Month, error) {
	m := Month(n)
	if !m.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidMonth, n)
	}
	return m, nil
}
