package currency

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidCurrency is returned for codes outside the supported set.
var ErrInvalidCurrency = errors.New("invalid currency")

// Code is an ISO 4217 currency code supported by the tracker.
type Code string

const (
	SGD Code = "SGD"
	JPY Code = "JPY"
	THB Code = "THB"
	MYR Code = "MYR"
	VND Code = "VND"
	IDR Code = "IDR"
)

// Base is the currency every rate in the table converts to.
const Base = SGD

// Info describes one entry of the currency table.
type Info struct {
	Code       Code
	Name       string
	Symbol     string
	Ambiguous  bool            // symbol is shared with another currency
	RateToBase decimal.Decimal // 1 unit of Code in Base
}

var table = map[Code]Info{
	SGD: {Code: SGD, Name: "Singapore Dollar", Symbol: "$", RateToBase: decimal.RequireFromString("1.0")},
	JPY: {Code: JPY, Name: "Japanese Yen", Symbol: "¥", RateToBase: decimal.RequireFromString("0.0085")},
	THB: {Code: THB, Name: "Thai Baht", Symbol: "฿", RateToBase: decimal.RequireFromString("0.04")},
	MYR: {Code: MYR, Name: "Malaysian Ringgit", Symbol: "RM", RateToBase: decimal.RequireFromString("0.31")},
	VND: {Code: VND, Name: "Vietnamese Dong", Symbol: "₫", RateToBase: decimal.RequireFromString("0.000049")},
	IDR: {Code: IDR, Name: "Indonesian Rupiah", Symbol: "Rp", RateToBase: decimal.RequireFromString("0.000078")},
}

var order = []Code{SGD, JPY, THB, MYR, VND, IDR}

// All returns every supported code in a stable order.
func All() []Code {
	out := make([]Code, len(order))
	copy(out, order)
	return out
}

// Parse converts user input like "jpy" into a Code.
func Parse(s string) (Code, error) {
	c := Code(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := table[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, s)
	}
	return c, nil
}

// Valid reports whether c is in the currency table.
func (c Code) Valid() bool {
	_, ok := table[c]
	return ok
}

func (c Code) String() string { return string(c) }

// Lookup returns the table entry for c.
func Lookup(c Code) (Info, error) {
	info, ok := table[c]
	if !ok {
		return Info{}, fmt.Errorf("%w: %q", ErrInvalidCurrency, string(c))
	}
	return info, nil
}

// Symbol returns the display symbol for c.
func Symbol(c Code) (string, error) {
	info, err := Lookup(c)
	if err != nil {
		return "", err
	}
	return info.Symbol, nil
}

// IsAmbiguous reports whether c's symbol needs the code as a prefix to be
// read unambiguously.
func IsAmbiguous(c Code) (bool, error) {
	info, err := Lookup(c)
	if err != nil {
		return false, err
	}
	return info.Ambiguous, nil
}

// RateToBase returns how many units of Base one unit of c is worth.
func RateToBase(c Code) (decimal.Decimal, error) {
	info, err := Lookup(c)
	if err != nil {
		return decimal.Zero, err
	}
	return info.RateToBase, nil
}

// Convert expresses amount (in from) in the to currency using the static table.
func Convert(amount decimal.Decimal, from, to Code) (decimal.Decimal, error) {
	if from == to {
		if !from.Valid() {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidCurrency, string(from))
		}
		return amount, nil
	}
	fromRate, err := RateToBase(from)
	if err != nil {
		return decimal.Zero, err
	}
	toRate, err := RateToBase(to)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(fromRate).Div(toRate), nil
}

// MustConvert is Convert for codes already validated at construction time.
// It panics on an unknown code.
func MustConvert(amount decimal.Decimal, from, to Code) decimal.Decimal {
	v, err := Convert(amount, from, to)
	if err != nil {
		panic(err)
	}
	return v
}

// SemiVerboseSymbol returns the symbol, prefixed with the code only when
// the symbol is ambiguous. Unknown codes render as the bare code.
func SemiVerboseSymbol(c Code) string {
	info, ok := table[c]
	if !ok {
		return string(c)
	}
	if info.Ambiguous {
		return string(c) + info.Symbol
	}
	return info.Symbol
}

// VerboseSymbol always prefixes the symbol with the code, e.g. "JPY¥".
func VerboseSymbol(c Code) string {
	info, ok := table[c]
	if !ok {
		return string(c)
	}
	return string(c) + info.Symbol
}

// Format renders amount with the semi-verbose symbol and two decimals,
// e.g. "$4.50" or "-$10.00".
func Format(c Code, amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-" + SemiVerboseSymbol(c) + amount.Abs().StringFixed(2)
	}
	return SemiVerboseSymbol(c) + amount.StringFixed(2)
}
