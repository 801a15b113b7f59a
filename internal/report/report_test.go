package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trackstars/trackstars/internal/audit"
	"github.com/trackstars/trackstars/internal/currency"
	"github.com/trackstars/trackstars/internal/model"
	"github.com/trackstars/trackstars/internal/registry"
	"github.com/trackstars/trackstars/internal/summary"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// setup returns a registry with an SGD bank (0) and a JPY bank (1).
func setup(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	sgd, err := reg.OpenBank(currency.SGD, dec("100"))
	require.NoError(t, err)
	jpy, err := reg.OpenBank(currency.JPY, dec("10000"))
	require.NoError(t, err)

	add := func(b *model.Bank, value string, cat model.Category, day int, tag string) {
		d, err := model.NewDate(day, model.January, 2025)
		require.NoError(t, err)
		tx, err := model.NewTransaction(dec(value), cat, d, b.Currency, tag)
		require.NoError(t, err)
		require.NoError(t, b.AddTransaction(tx))
	}
	add(sgd, "4.50", model.CategoryFood, 3, "lunch")
	add(sgd, "25.50", model.CategoryFood, 4, "dinner")
	add(jpy, "1000", model.CategoryTransport, 5, "train")

	bgt, err := model.NewBudget(model.CategoryFood, dec("20"), currency.SGD, model.January, sgd)
	require.NoError(t, err)
	require.NoError(t, reg.AddBudget(bgt))
	return reg
}

func TestSummary_BankScope(t *testing.T) {
	reg := setup(t)
	bank, err := reg.Bank(0)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Summary(&buf, summary.Generate(reg, model.January, summary.ForBank(bank))))
	out := buf.String()

	assert.Contains(t, out, "Summary for JAN for Bank 0\n")
	assert.Contains(t, out, "  1. $4.50 | lunch(FOOD) | 3rd of January, 2025\n")
	assert.Contains(t, out, "  2. $25.50 | dinner(FOOD) | 4th of January, 2025\n")
	assert.NotContains(t, out, "train")
	assert.Regexp(t, `FOOD\s+\$30\.00\s+\$20\.00\s+-\$10\.00\s+OVER BUDGET`, out)
	assert.Regexp(t, `TRANSPORT\s+\$0\.00\s+-\s+-`, out)
	assert.Contains(t, out, "Total spent: $30.00\n")
	assert.Contains(t, out, "Total budget: $20.00\n")
}

func TestSummary_CurrencyScope(t *testing.T) {
	reg := setup(t)

	var buf bytes.Buffer
	require.NoError(t, Summary(&buf, summary.Generate(reg, model.January, summary.ForCurrency(currency.JPY))))
	out := buf.String()

	assert.Contains(t, out, "Summary for JAN (Showing only JPY transactions)\n")
	assert.Contains(t, out, "  1. [Bank 1] ¥1000.00 | train(TRANSPORT) | 5th of January, 2025\n")
	assert.NotContains(t, out, "OVER BUDGET")
	assert.Contains(t, out, "Total spent: ¥1000.00\n")
	assert.NotContains(t, out, "Total budget")
}

func TestSummary_GlobalScope(t *testing.T) {
	reg := setup(t)

	var buf bytes.Buffer
	require.NoError(t, Summary(&buf, summary.Generate(reg, model.January, summary.Global(currency.SGD))))
	out := buf.String()

	assert.Contains(t, out, "Summary for JAN\nAll transactions, spending and budgeting are converted to SGD\n")
	assert.Contains(t, out, "[Bank 0] $4.50 | lunch(FOOD)")
	assert.Contains(t, out, "  3. [Bank 1] ¥1000.00 | train(TRANSPORT) | 5th of January, 2025 ($8.50)\n")
	assert.Regexp(t, `TRANSPORT\s+\$8\.50`, out)
	assert.Contains(t, out, "Total spent: $38.50\n")
}

func TestSummary_Empty(t *testing.T) {
	reg := setup(t)

	var buf bytes.Buffer
	require.NoError(t, Summary(&buf, summary.Generate(reg, model.March, summary.ForCurrency(currency.THB))))
	out := buf.String()

	assert.Contains(t, out, "Summary for MAR (Showing only THB transactions)")
	assert.Contains(t, out, "No transactions in March\n")
	assert.Contains(t, out, "Total spent: ฿0.00\n")
}

func TestBanks(t *testing.T) {
	reg := setup(t)
	current, err := reg.Login(1)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Banks(&buf, reg.Banks(), current))
	out := buf.String()

	assert.Contains(t, out, "Your Bank Accounts are:\n")
	assert.Regexp(t, `(?m)^0\s+SGD\s+\$70\.00\s+1\s*$`, out)
	assert.Regexp(t, `(?m)^1\s+JPY\s+¥9000\.00\s+0\.0085\s+\*$`, out)

	buf.Reset()
	require.NoError(t, Banks(&buf, nil, nil))
	assert.Contains(t, buf.String(), "No bank accounts yet")
}

func TestTransactions(t *testing.T) {
	reg := setup(t)

	var buf bytes.Buffer
	require.NoError(t, Transactions(&buf, "Recent Transactions:", reg.Transactions(nil)))
	out := buf.String()

	assert.Contains(t, out, "Recent Transactions:\n")
	assert.Contains(t, out, "  2. [Bank 0] $25.50 | dinner(FOOD)")
	assert.Contains(t, out, "  1. [Bank 1] ¥1000.00 | train(TRANSPORT)")

	buf.Reset()
	require.NoError(t, Transactions(&buf, "Search results:", nil))
	assert.Equal(t, "No transactions found.\n", buf.String())
}

func TestBudgets(t *testing.T) {
	reg := setup(t)
	global, err := model.NewBudget(model.CategoryEntertainment, dec("50"), currency.SGD, model.January, nil)
	require.NoError(t, err)
	require.NoError(t, reg.AddBudget(global))

	var buf bytes.Buffer
	require.NoError(t, Budgets(&buf, model.January, reg.BudgetsFor(model.January, nil)))
	out := buf.String()

	assert.Contains(t, out, "Budgets for January:\n")
	assert.Regexp(t, `FOOD\s+\$20\.00\s+Bank 0`, out)
	assert.Regexp(t, `ENTERTAINMENT\s+\$50\.00\s+global`, out)

	buf.Reset()
	require.NoError(t, Budgets(&buf, model.June, nil))
	assert.Equal(t, "No budgets set for June.\n", buf.String())
}

func TestHistory(t *testing.T) {
	entries := []audit.Entry{
		{Timestamp: time.Now(), Action: audit.ActionDeposit, BankID: 2, Details: "$5.00"},
		{Timestamp: time.Now(), Action: audit.ActionSetBudget, BankID: audit.NoBank, Details: "global"},
	}

	var buf bytes.Buffer
	require.NoError(t, History(&buf, entries))
	out := buf.String()

	assert.Regexp(t, `deposit\s+2\s+\$5\.00`, out)
	assert.Regexp(t, `set_budget\s+-\s+global`, out)

	buf.Reset()
	require.NoError(t, History(&buf, nil))
	assert.Equal(t, "No activity recorded.\n", buf.String())
}
