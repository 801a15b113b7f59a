package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/trackstars/trackstars/internal/currency"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(t *testing.T, day int, month Month, year int) Date {
	t.Helper()
	d, err := NewDate(day, month, year)
	require.NoError(t, err)
	return d
}

func newBank(t *testing.T, code currency.Code, balance string) *Bank {
	t.Helper()
	b, err := NewBank(0, code, dec(balance), decimal.Zero)
	require.NoError(t, err)
	return b
}

func newTx(t *testing.T, value string, cat Category, d Date, code currency.Code) Transaction {
	t.Helper()
	tx, err := NewTransaction(dec(value), cat, d, code, "")
	require.NoError(t, err)
	return tx
}
