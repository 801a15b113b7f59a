package summary

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trackstars/trackstars/internal/currency"
	"github.com/trackstars/trackstars/internal/model"
	"github.com/trackstars/trackstars/internal/registry"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	t   *testing.T
	reg *registry.Registry
}

func newFixture(t *testing.T) *fixture {
	return &fixture{t: t, reg: registry.New()}
}

func (f *fixture) bank(code currency.Code, balance string) *model.Bank {
	f.t.Helper()
	b, err := f.reg.OpenBank(code, dec(balance))
	require.NoError(f.t, err)
	return b
}

func (f *fixture) spend(b *model.Bank, cat model.Category, value string, day int, month model.Month, year int) {
	f.t.Helper()
	d, err := model.NewDate(day, month, year)
	require.NoError(f.t, err)
	tx, err := model.NewTransaction(dec(value), cat, d, b.Currency, "")
	require.NoError(f.t, err)
	require.NoError(f.t, b.AddTransaction(tx))
}

func (f *fixture) budget(b *model.Bank, cat model.Category, amount string, month model.Month) {
	f.t.Helper()
	code := currency.Base
	if b != nil {
		code = b.Currency
	}
	bgt, err := model.NewBudget(cat, dec(amount), code, month, b)
	require.NoError(f.t, err)
	require.NoError(f.t, f.reg.AddBudget(bgt))
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	msg := fmt.Sprintf("want %s got %s", want, got)
	if len(msgAndArgs) > 0 {
		if format, ok := msgAndArgs[0].(string); ok {
			msg += ": " + fmt.Sprintf(format, msgAndArgs[1:]...)
		}
	}
	assert.True(t, dec(want).Equal(got), msg)
}

func TestGenerate_BankScopeSingleCategory(t *testing.T) {
	f := newFixture(t)
	b := f.bank(currency.SGD, "1000")
	f.spend(b, model.CategoryFood, "50", 10, model.January, 2025)

	res := Generate(f.reg, model.January, ForBank(b))

	assert.Equal(t, KindBank, res.Kind)
	assert.Equal(t, currency.SGD, res.DisplayCurrency)
	assert.Equal(t, b.ID, res.BankID)
	assertDec(t, "50", res.Spend[model.CategoryFood])
	assertDec(t, "0", res.Spend[model.CategoryTransport])
	assertDec(t, "0", res.Spend[model.CategoryRecreation])
	assertDec(t, "0", res.Spend[model.CategoryEntertainment])
	assertDec(t, "50", res.Total)
	require.Len(t, res.Lines, 1)
	assert.Equal(t, 1, res.Lines[0].Index)
}

func TestGenerate_GlobalConvertsToDisplay(t *testing.T) {
	f := newFixture(t)
	sgd := f.bank(currency.SGD, "100")
	jpy := f.bank(currency.JPY, "1000")
	f.spend(sgd, model.CategoryFood, "10", 1, model.January, 2025)
	f.spend(jpy, model.CategoryFood, "10", 2, model.January, 2025)

	res := Generate(f.reg, model.January, Global(currency.SGD))

	assert.Equal(t, KindGlobal, res.Kind)
	assertDec(t, "10.085", res.Spend[model.CategoryFood])
	assertDec(t, "10.085", res.Total)
	require.Len(t, res.Lines, 2)
	assertDec(t, "10", res.Lines[0].Amount)
	assertDec(t, "0.085", res.Lines[1].Amount)
	assert.Equal(t, jpy.ID, res.Lines[1].BankID)
	assert.Equal(t, -1, res.BankID)
}

func TestGenerate_FlagsOverBudget(t *testing.T) {
	f := newFixture(t)
	b := f.bank(currency.SGD, "1000")
	f.budget(b, model.CategoryFood, "200", model.January)
	f.spend(b, model.CategoryFood, "100", 3, model.January, 2025)
	f.spend(b, model.CategoryFood, "150", 4, model.January, 2025)

	res := Generate(f.reg, model.January, ForBank(b))

	assertDec(t, "250", res.Spend[model.CategoryFood])
	assertDec(t, "200", res.Budget[model.CategoryFood])
	assert.True(t, res.OverBudget(model.CategoryFood))
	assertDec(t, "-50", res.Remaining(model.CategoryFood))
	assert.Equal(t, []model.Category{model.CategoryFood}, res.OverBudgetCategories())
}

func TestGenerate_CurrencyScopeWithoutBanks(t *testing.T) {
	f := newFixture(t)
	b := f.bank(currency.SGD, "1000")
	f.spend(b, model.CategoryFood, "10", 3, model.January, 2025)
	f.budget(b, model.CategoryFood, "200", model.January)

	res := Generate(f.reg, model.January, ForCurrency(currency.THB))

	assert.Empty(t, res.Lines)
	assert.Equal(t, currency.THB, res.DisplayCurrency)
	for _, c := range model.Categories() {
		assertDec(t, "0", res.Spend[c], "spend %s", c)
		assertDec(t, "0", res.Budget[c], "budget %s", c)
	}
	assertDec(t, "0", res.Total)
}

func TestTotality(t *testing.T) {
	f := newFixture(t)
	sgd := f.bank(currency.SGD, "1000")
	f.bank(currency.VND, "1000000")
	f.spend(sgd, model.CategoryTransport, "3", 3, model.March, 2025)

	scopes := []Scope{ForBank(sgd), ForCurrency(currency.SGD), ForCurrency(currency.VND), Global(currency.SGD), Global(currency.IDR)}
	for _, m := range model.Months() {
		for _, s := range scopes {
			res := Generate(f.reg, m, s)
			assert.Len(t, res.Spend, len(model.Categories()), "%s %s", m, s.Kind())
			assert.Len(t, res.Budget, len(model.Categories()), "%s %s", m, s.Kind())
			for _, c := range model.Categories() {
				_, ok := res.Spend[c]
				assert.True(t, ok, "spend missing %s", c)
				_, ok = res.Budget[c]
				assert.True(t, ok, "budget missing %s", c)
			}
		}
	}
}

func TestScopeExclusivity(t *testing.T) {
	f := newFixture(t)
	sgd := f.bank(currency.SGD, "1000")
	thb1 := f.bank(currency.THB, "1000")
	thb2 := f.bank(currency.THB, "1000")
	f.spend(sgd, model.CategoryFood, "10", 1, model.June, 2025)
	f.spend(thb1, model.CategoryFood, "20", 1, model.June, 2025)
	f.spend(thb2, model.CategoryRecreation, "30", 1, model.June, 2025)

	res := Generate(f.reg, model.June, ForCurrency(currency.THB))

	require.Len(t, res.Lines, 2)
	for _, l := range res.Lines {
		assert.Equal(t, currency.THB, l.Transaction.Currency)
		assert.NotEqual(t, sgd.ID, l.BankID)
	}
	assertDec(t, "20", res.Spend[model.CategoryFood], "no conversion within a currency scope")
	assertDec(t, "30", res.Spend[model.CategoryRecreation])
	assertDec(t, "50", res.Total)
}

func TestMonthFilterIgnoresYear(t *testing.T) {
	f := newFixture(t)
	b := f.bank(currency.SGD, "1000")
	f.spend(b, model.CategoryFood, "10", 5, model.January, 2024)
	f.spend(b, model.CategoryFood, "15", 5, model.January, 2025)
	f.spend(b, model.CategoryFood, "99", 5, model.February, 2025)

	res := Generate(f.reg, model.January, ForBank(b))

	assert.Len(t, res.Lines, 2)
	assertDec(t, "25", res.Spend[model.CategoryFood])
}

func TestBankScopeIgnoresOtherBanks(t *testing.T) {
	f := newFixture(t)
	a := f.bank(currency.SGD, "1000")
	b := f.bank(currency.SGD, "1000")
	f.spend(a, model.CategoryFood, "10", 5, model.January, 2025)
	f.spend(b, model.CategoryFood, "20", 5, model.January, 2025)
	f.budget(a, model.CategoryFood, "40", model.January)
	f.budget(b, model.CategoryFood, "80", model.January)
	f.budget(nil, model.CategoryFood, "500", model.January)

	res := Generate(f.reg, model.January, ForBank(b))

	assertDec(t, "20", res.Spend[model.CategoryFood])
	assertDec(t, "80", res.Budget[model.CategoryFood])
}

func TestCurrencyScopeBudgets(t *testing.T) {
	f := newFixture(t)
	sgd := f.bank(currency.SGD, "1000")
	jpy1 := f.bank(currency.JPY, "100000")
	jpy2 := f.bank(currency.JPY, "100000")
	f.budget(sgd, model.CategoryFood, "40", model.January)
	f.budget(jpy1, model.CategoryFood, "3000", model.January)
	f.budget(jpy2, model.CategoryFood, "2000", model.January)
	f.budget(jpy2, model.CategoryFood, "1000", model.February)
	f.budget(nil, model.CategoryFood, "500", model.January)

	res := Generate(f.reg, model.January, ForCurrency(currency.JPY))
	assertDec(t, "5000", res.Budget[model.CategoryFood], "global budgets and other currencies excluded")

	res = Generate(f.reg, model.January, ForCurrency(currency.SGD))
	assertDec(t, "40", res.Budget[model.CategoryFood])
}

func TestGlobalScopeBudgetsConverted(t *testing.T) {
	f := newFixture(t)
	sgd := f.bank(currency.SGD, "1000")
	thb := f.bank(currency.THB, "1000")
	f.budget(sgd, model.CategoryFood, "100", model.January)
	f.budget(thb, model.CategoryFood, "500", model.January)
	f.budget(nil, model.CategoryFood, "25", model.January)

	res := Generate(f.reg, model.January, Global(currency.SGD))
	// 100 + 500*0.04 + 25
	assertDec(t, "145", res.Budget[model.CategoryFood])

	res = Generate(f.reg, model.January, Global(currency.THB))
	// 100/0.04 + 500 + 25/0.04
	assertDec(t, "3625", res.Budget[model.CategoryFood])
	assertDec(t, "3625", res.TotalBudget())
}

func TestConversionInverse(t *testing.T) {
	f := newFixture(t)
	jpy := f.bank(currency.JPY, "100000")
	f.spend(jpy, model.CategoryEntertainment, "1234.56", 9, model.May, 2025)
	f.spend(jpy, model.CategoryEntertainment, "0.01", 10, model.May, 2025)

	native := Generate(f.reg, model.May, ForBank(jpy))
	converted := Generate(f.reg, model.May, Global(currency.JPY))

	assertDec(t, "1234.57", native.Spend[model.CategoryEntertainment])
	assert.True(t, native.Spend[model.CategoryEntertainment].Equal(converted.Spend[model.CategoryEntertainment]))
	for i, l := range converted.Lines {
		assert.True(t, l.Amount.Equal(l.Transaction.Value), "line %d", i)
	}

	toSGD := Generate(f.reg, model.May, Global(currency.SGD))
	back := currency.MustConvert(toSGD.Spend[model.CategoryEntertainment], currency.SGD, currency.JPY)
	diff := back.Sub(native.Spend[model.CategoryEntertainment]).Abs()
	assert.True(t, diff.LessThan(dec("0.000001")), "round trip drift %s", diff)
}

func TestOverBudgetFlag(t *testing.T) {
	tests := []struct {
		spend, budget string
		want          bool
	}{
		{"250", "200", true},
		{"200", "200", false},
		{"199.99", "200", false},
		{"1000", "0", false},
		{"0", "0", false},
		{"0.01", "0", false},
	}
	for _, tt := range tests {
		res := Result{
			Spend:  map[model.Category]decimal.Decimal{model.CategoryFood: dec(tt.spend)},
			Budget: map[model.Category]decimal.Decimal{model.CategoryFood: dec(tt.budget)},
		}
		assert.Equal(t, tt.want, res.OverBudget(model.CategoryFood), "spend %s budget %s", tt.spend, tt.budget)
	}
}

func TestGenerateIsIdempotent(t *testing.T) {
	f := newFixture(t)
	sgd := f.bank(currency.SGD, "1000")
	myr := f.bank(currency.MYR, "1000")
	f.spend(sgd, model.CategoryFood, "12.34", 1, model.April, 2025)
	f.spend(myr, model.CategoryTransport, "7.5", 2, model.April, 2025)
	f.budget(myr, model.CategoryTransport, "5", model.April)
	balances := []decimal.Decimal{sgd.Balance(), myr.Balance()}

	first := Generate(f.reg, model.April, Global(currency.SGD))
	second := Generate(f.reg, model.April, Global(currency.SGD))

	assert.Equal(t, first, second)
	assert.True(t, balances[0].Equal(sgd.Balance()))
	assert.True(t, balances[1].Equal(myr.Balance()))
	assert.Len(t, f.reg.Budgets(), 1)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "bank", KindBank.String())
	assert.Equal(t, "currency", KindCurrency.String())
	assert.Equal(t, "global", KindGlobal.String())
	assert.Equal(t, "unknown", Kind(9).String())
}
