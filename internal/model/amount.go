package model

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxBalance is the ceiling a balance is clamped to.
var MaxBalance = decimal.NewFromFloat(math.MaxFloat32)

var amountPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// ParseAmount parses user input such as "4.50". Negative numbers, signs,
// exponents and more than two decimal places are rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if !amountPattern.MatchString(s) {
		return decimal.Zero, fmt.Errorf("%w: %q, use a non-negative number with at most 2 decimal places", ErrInvalidAmount, s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q: %w", ErrInvalidAmount, s, err)
	}
	return d, nil
}

// ParsePositiveAmount is ParseAmount that also rejects zero.
func ParsePositiveAmount(s string) (decimal.Decimal, error) {
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %q must be greater than zero", ErrInvalidAmount, s)
	}
	return d, nil
}

// CheckPrecision rejects amounts with more than two decimal places.
// Trailing zeros do not count: "4.500" passes.
func CheckPrecision(d decimal.Decimal) error {
	if !d.Equal(d.Round(2)) {
		return fmt.Errorf("%w: %s has more than 2 decimal places", ErrInvalidAmount, d)
	}
	return nil
}
