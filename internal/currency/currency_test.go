package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Code
	}{
		{"SGD", SGD},
		{"sgd", SGD},
		{" jpy ", JPY},
		{"Thb", THB},
		{"MYR", MYR},
		{"vnd", VND},
		{"IDR", IDR},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		require.NoError(t, err, "Parse(%q)", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestParse_Unknown(t *testing.T) {
	for _, in := range []string{"", "USD", "yen", "S G D"} {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ErrInvalidCurrency, "Parse(%q)", in)
	}
}

func TestRateToBase(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{SGD, "1"},
		{THB, "0.04"},
		{JPY, "0.0085"},
		{VND, "0.000049"},
		{IDR, "0.000078"},
		{MYR, "0.31"},
	}
	for _, tt := range tests {
		got, err := RateToBase(tt.code)
		require.NoError(t, err)
		assert.True(t, got.Equal(dec(tt.want)), "rate for %s = %s", tt.code, got)
	}
}

func TestTableIsTotal(t *testing.T) {
	for _, c := range All() {
		info, err := Lookup(c)
		require.NoError(t, err)
		assert.True(t, info.RateToBase.IsPositive(), "%s rate must be positive", c)
		assert.NotEmpty(t, info.Symbol)
		assert.NotEmpty(t, info.Name)
		assert.True(t, c.Valid())
	}
	assert.Len(t, All(), 6)
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup(Code("USD"))
	assert.ErrorIs(t, err, ErrInvalidCurrency)

	_, err = Symbol(Code("USD"))
	assert.ErrorIs(t, err, ErrInvalidCurrency)

	_, err = IsAmbiguous(Code("USD"))
	assert.ErrorIs(t, err, ErrInvalidCurrency)

	_, err = RateToBase(Code("USD"))
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestConvert(t *testing.T) {
	got, err := Convert(dec("10"), JPY, SGD)
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("0.085")), "got %s", got)

	got, err = Convert(dec("1"), SGD, THB)
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("25")), "got %s", got)

	_, err = Convert(dec("1"), SGD, Code("XXX"))
	assert.ErrorIs(t, err, ErrInvalidCurrency)

	_, err = Convert(dec("1"), Code("XXX"), Code("XXX"))
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestConvert_Inverse(t *testing.T) {
	values := []string{"0.01", "4.50", "10", "1234.56", "99999.99"}
	tolerance := dec("0.0000001")
	for _, from := range All() {
		for _, to := range All() {
			for _, v := range values {
				there := MustConvert(dec(v), from, to)
				back := MustConvert(there, to, from)
				diff := back.Sub(dec(v)).Abs()
				assert.True(t, diff.LessThan(tolerance), "%s %s->%s->%s = %s", v, from, to, from, back)
			}
		}
	}
}

func TestSymbols(t *testing.T) {
	assert.Equal(t, "$", SemiVerboseSymbol(SGD))
	assert.Equal(t, "SGD$", VerboseSymbol(SGD))
	assert.Equal(t, "JPY¥", VerboseSymbol(JPY))
	assert.Equal(t, "XXX", SemiVerboseSymbol(Code("XXX")))
	assert.Equal(t, "฿12.50", Format(THB, dec("12.5")))
	assert.Equal(t, "-$10.00", Format(SGD, dec("-10")))

	sym, err := Symbol(MYR)
	require.NoError(t, err)
	assert.Equal(t, "RM", sym)

	amb, err := IsAmbiguous(SGD)
	require.NoError(t, err)
	assert.False(t, amb)
}
